// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/spmpl-pl/ztm/ztm/util/time2"
)

type recordedRequest struct {
	Path  string
	Query url.Values
}

func newTestServer(t *testing.T, body string) (*Client, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, recordedRequest{r.URL.Path, r.URL.Query()})
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "KEY", DefaultIDs(), srv.Client()), &requests
}

func TestLookupStopGroups(t *testing.T) {
	c, requests := newTestServer(t, `{"result":[
		{"values":[{"key":"zespol","value":"7006"},{"key":"nazwa_zespolu","value":"Jana Kazimierza"}]}
	]}`)

	records, err := c.LookupStopGroups(context.Background(), "Jana Kazimierza")
	if err != nil {
		t.Fatalf("LookupStopGroups: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, expected 1", len(records))
	}
	if v, _ := records[0].Get("zespol"); v != "7006" {
		t.Errorf("zespol = %q", v)
	}

	r := (*requests)[0]
	if r.Path != "/api/action/dbtimetable_get" {
		t.Errorf("path = %q", r.Path)
	}
	want := url.Values{
		"apikey": {"KEY"},
		"id":     {"b27f4c17-5c50-4a5b-89dd-236b282bc499"},
		"name":   {"Jana Kazimierza"},
	}
	if r.Query.Encode() != want.Encode() {
		t.Errorf("query = %v, expected %v", r.Query, want)
	}
}

func TestParametersDoNotLeakBetweenCalls(t *testing.T) {
	c, requests := newTestServer(t, `{"result":[]}`)
	ctx := context.Background()

	if _, err := c.FetchSchedule(ctx, "5205", "01", "255"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.FetchLines(ctx, "5205", "02"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.LookupStopGroups(ctx, "Okopowa"); err != nil {
		t.Fatal(err)
	}

	lines := (*requests)[1].Query
	if lines.Has("line") {
		t.Errorf("lines request carries a stale line parameter: %v", lines)
	}
	if lines.Get("busstopNr") != "02" {
		t.Errorf("busstopNr = %q", lines.Get("busstopNr"))
	}

	lookup := (*requests)[2].Query
	for _, key := range []string{"line", "busstopId", "busstopNr"} {
		if lookup.Has(key) {
			t.Errorf("lookup request carries a stale %s parameter: %v", key, lookup)
		}
	}

	if got := c.params(); len(got) != 1 || got.Get("apikey") != "KEY" {
		t.Errorf("base parameters were modified: %v", got)
	}
}

func TestFetchVehicles(t *testing.T) {
	c, requests := newTestServer(t, `{"result":[
		{"Lines":"523","Lon":21.01,"VehicleNumber":"1234","Time":"2024-05-01 14:03:22","Lat":52.23,"Brigade":"3"}
	]}`)

	vehicles, err := c.FetchVehicles(context.Background(), Bus, "523", "")
	if err != nil {
		t.Fatalf("FetchVehicles: %v", err)
	}
	if len(vehicles) != 1 {
		t.Fatalf("got %d vehicles", len(vehicles))
	}

	v := vehicles[0]
	if v.Line != "523" || v.Brigade != "3" || v.VehicleNumber != "1234" || v.Lat != 52.23 || v.Lon != 21.01 {
		t.Errorf("vehicle = %+v", v)
	}
	wantTime := time.Date(2024, 5, 1, 14, 3, 22, 0, time2.WarsawTimezone)
	if !time.Time(v.Time).Equal(wantTime) {
		t.Errorf("Time = %v, expected %v", time.Time(v.Time), wantTime)
	}

	q := (*requests)[0].Query
	if q.Get("type") != "1" || q.Get("line") != "523" || q.Has("brigade") {
		t.Errorf("query = %v", q)
	}
	if q.Get("resource_id") != "f2e5503e927d-4ad3-9500-4ab9e55deb59" {
		t.Errorf("resource_id = %q", q.Get("resource_id"))
	}
}

func TestFetchVehiclesWithBrigade(t *testing.T) {
	c, requests := newTestServer(t, `{"result":[]}`)
	if _, err := c.FetchVehicles(context.Background(), Tram, "7", "05"); err != nil {
		t.Fatal(err)
	}
	q := (*requests)[0].Query
	if q.Get("type") != "2" || q.Get("brigade") != "05" {
		t.Errorf("query = %v", q)
	}
}

func TestResultErrorString(t *testing.T) {
	c, _ := newTestServer(t, `{"result":"Błędna metoda lub parametry wywołania"}`)

	_, err := c.FetchLines(context.Background(), "9999", "99")
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if string(apiErr) != "Błędna metoda lub parametry wywołania" {
		t.Errorf("APIError = %q", string(apiErr))
	}
}

func TestCheckResultUndecodableString(t *testing.T) {
	tests := []struct {
		name   string
		result string
		want   string
	}{
		{"empty", `""`, `""`},
		{"bad escape", `"bad \q escape"`, `"bad \q escape"`},
		{"message", `"Błędny klucz"`, "Błędny klucz"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkResult(&envelope{Result: json.RawMessage(tc.result)})
			var apiErr APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if string(apiErr) != tc.want {
				t.Errorf("APIError = %q, expected %q", string(apiErr), tc.want)
			}
		})
	}
}

func TestFetchDataset(t *testing.T) {
	body := `{"result":{"typy_przystankow":{"1":"stały"},"ulice":{"12":"Marszałkowska"}}}`
	c, requests := newTestServer(t, body)

	got, err := c.FetchDataset(context.Background(), DictionaryDataset)
	if err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}
	if string(got) != body {
		t.Errorf("FetchDataset did not return the verbatim body: %s", got)
	}
	if p := (*requests)[0].Path; p != "/api/action/public_transport_dictionary" {
		t.Errorf("path = %q", p)
	}
}

func TestFetchDatasetStops(t *testing.T) {
	c, requests := newTestServer(t, `{"result":[]}`)
	if _, err := c.FetchDataset(context.Background(), StopsDataset); err != nil {
		t.Fatal(err)
	}
	r := (*requests)[0]
	if r.Path != "/api/action/dbstore_get" || r.Query.Get("id") != "ab75c33d-3a26-4342-b36a-6e5fef0a3ac3" {
		t.Errorf("request = %+v", r)
	}
}

func TestFetchDatasetRejectsErrorResult(t *testing.T) {
	c, _ := newTestServer(t, `{"result":"false"}`)
	_, err := c.FetchDataset(context.Background(), RoutesDataset)
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestVariantsKeepSourceOrder(t *testing.T) {
	var r RouteRegistry
	err := json.Unmarshal([]byte(`{"result":{"255":{
		"TP-ZAB":{"1":{"nr_zespolu":"1001","nr_przystanku":"01","typ":"1","odleglosc":0,"ulica_id":"12"}},
		"TX-ABC":{},
		"TO-DET":{"1":{"nr_zespolu":"1002","nr_przystanku":"02","typ":"2","odleglosc":"350","ulica_id":12}}
	}}}`), &r)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	variants := r.Result["255"]
	ids := make([]string, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}
	want := []string{"TP-ZAB", "TX-ABC", "TO-DET"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, expected %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, expected %v", ids, want)
			break
		}
	}

	stop := variants[2].Stops["1"]
	if stop.Distance != "350" || stop.StreetID != "12" {
		t.Errorf("stop = %+v", stop)
	}
	if d := variants[0].Stops["1"].Distance; d != "0" {
		t.Errorf("numeric distance = %q, expected 0", d)
	}
}
