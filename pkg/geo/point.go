package geo

import (
	"bytes"
	"database/sql/driver"
	"fmt"
)

// Point is a geographic coordinate stored in a Postgres point column as
// (longitude, latitude), matching PostGIS-free point convention X=long, Y=lat.
type Point struct {
	X float64 // longitude
	Y float64 // latitude
}

func NewPoint(long, lat float64) Point {
	return Point{X: long, Y: lat}
}

func (p Point) Longitude() float64 { return p.X }
func (p Point) Latitude() float64  { return p.Y }

func (p *Point) Value() (driver.Value, error) {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "(%f, %f)", p.X, p.Y)
	return buf.Bytes(), nil
}

func (p *Point) Scan(val any) error {
	var s string
	switch v := val.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("unsupported type: %s", fmt.Sprintf("%T", v))
	}

	_, err := fmt.Sscanf(s, "(%f,%f)", &p.X, &p.Y)
	if err != nil {
		return err
	}
	return nil
}

func (p *Point) String() string {
	return fmt.Sprintf("(%v, %v)", p.X, p.Y)
}
