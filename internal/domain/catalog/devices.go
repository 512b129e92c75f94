package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownOrientation is returned for an orientation other than portrait or landscape
var ErrUnknownOrientation = errors.New("unknown orientation")

// Orientation of a simulated device
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Device is a simulator viewport, dimensions in portrait
type Device struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
	Type   string `yaml:"type" json:"type"`
	OS     string `yaml:"os" json:"os"`
}

// Viewport is a device's effective size in one orientation
type Viewport struct {
	Device      string      `json:"device"`
	Orientation Orientation `json:"orientation"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
}

// Devices returns every simulator device
func (c *Catalog) Devices() []Device {
	return append([]Device(nil), c.devices...)
}

// Device returns the device with the given id
func (c *Catalog) Device(id string) (Device, error) {
	for _, d := range c.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return Device{}, fmt.Errorf("%w: device %s", ErrNotFound, id)
}

// Viewport returns the device size for an orientation; landscape swaps width and height
func (c *Catalog) Viewport(id string, orientation Orientation) (Viewport, error) {
	d, err := c.Device(id)
	if err != nil {
		return Viewport{}, err
	}

	v := Viewport{Device: d.ID, Orientation: orientation, Width: d.Width, Height: d.Height}
	switch orientation {
	case Portrait:
	case Landscape:
		v.Width, v.Height = d.Height, d.Width
	default:
		return Viewport{}, fmt.Errorf("%w: %s", ErrUnknownOrientation, orientation)
	}
	return v, nil
}
