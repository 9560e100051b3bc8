// SPDX-FileCopyrightText: 2026 Bartosz Chmielewski
// SPDX-License-Identifier: MIT

package fact

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"

	"github.com/spmpl-pl/ztm/ztm/source"
)

const (
	Binary        = false
	HumanReadable = true
)

// Container is a snapshot of live vehicle positions of a single line.
type Container struct {
	Timestamp time.Time          `json:"timestamp"`
	Kind      string             `json:"kind"`
	Line      string             `json:"line"`
	Vehicles  []*VehiclePosition `json:"vehicles"`
}

func FromVehicles(kind source.VehicleKind, line string, vehicles []source.Vehicle, now time.Time) *Container {
	c := &Container{
		Timestamp: now,
		Kind:      kind.String(),
		Line:      line,
		Vehicles:  make([]*VehiclePosition, len(vehicles)),
	}
	for i, v := range vehicles {
		c.Vehicles[i] = &VehiclePosition{
			ID:            fmt.Sprintf("%s_%s", c.Kind, v.VehicleNumber),
			VehicleNumber: v.VehicleNumber,
			Line:          v.Line,
			Brigade:       v.Brigade,
			Lat:           v.Lat,
			Lon:           v.Lon,
			Time:          time.Time(v.Time),
		}
	}
	return c
}

func (c *Container) AsGTFS() *gtfs.FeedMessage {
	g := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: ptr("2.0"),
			Incrementality:      ptr(gtfs.FeedHeader_FULL_DATASET),
			Timestamp:           ptr(uint64(c.Timestamp.Unix())),
		},
	}

	g.Entity = make([]*gtfs.FeedEntity, len(c.Vehicles))
	for i, v := range c.Vehicles {
		g.Entity[i] = v.AsGTFS()
	}

	return g
}

func (c *Container) DumpJSON(w io.Writer, humanReadable bool) error {
	e := json.NewEncoder(w)
	if humanReadable {
		e.SetIndent("", "\t")
	}
	return e.Encode(c)
}

func (c *Container) DumpJSONFile(path string, humanReadable bool) error {
	return writeFileAtomic(path, func(w io.Writer) error { return c.DumpJSON(w, humanReadable) })
}

func (c *Container) DumpGTFS(w io.Writer, humanReadable bool) error {
	var data []byte
	var err error

	if humanReadable {
		data, err = prototext.Marshal(c.AsGTFS())
	} else {
		data, err = proto.Marshal(c.AsGTFS())
	}

	if err != nil {
		return err
	}

	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

func (c *Container) DumpGTFSFile(path string, humanReadable bool) error {
	return writeFileAtomic(path, func(w io.Writer) error { return c.DumpGTFS(w, humanReadable) })
}

// VehiclePosition is the last reported position of a single vehicle.
type VehiclePosition struct {
	ID            string    `json:"id"`
	VehicleNumber string    `json:"vehicle_number"`
	Line          string    `json:"line"`
	Brigade       string    `json:"brigade,omitempty"`
	Lat           float64   `json:"lat"`
	Lon           float64   `json:"lon"`
	Time          time.Time `json:"time,omitzero"`
}

func (v *VehiclePosition) AsGTFS() *gtfs.FeedEntity {
	g := new(gtfs.FeedEntity)
	g.Id = ptr(v.ID)
	g.Vehicle = &gtfs.VehiclePosition{
		Trip: &gtfs.TripDescriptor{
			RouteId: ptr(v.Line),
		},
		Vehicle: &gtfs.VehicleDescriptor{
			Id: ptr(v.VehicleNumber),
		},
		Position: &gtfs.Position{
			Latitude:  ptr(float32(v.Lat)),
			Longitude: ptr(float32(v.Lon)),
		},
	}

	if v.Brigade != "" {
		g.Vehicle.Vehicle.Label = ptr(v.Brigade)
	}

	if !v.Time.IsZero() {
		g.Vehicle.Timestamp = ptr(uint64(v.Time.Unix()))
	}

	return g
}

func writeFileAtomic(path string, write func(io.Writer) error) error {
	tempPath := getTempOutputPath(path)

	f, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	b := bufio.NewWriter(f)
	err = write(b)
	if err == nil {
		err = b.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return err
	}

	return os.Rename(tempPath, path)
}

func ptr[T any](thing T) *T {
	return &thing
}

func getTempOutputPath(path string) string {
	dir, name := filepath.Split(path)
	return fmt.Sprintf("%s.%s.tmp", dir, name)
}
