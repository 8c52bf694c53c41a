package models

import "time"

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Wall is floor-plan geometry; the service stores it verbatim and never
// interprets the coordinates. The field is wallType, not type, because the
// original schema avoided a reserved column name.
type Wall struct {
	ID    string   `json:"id" yaml:"id"`
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
	Type  string   `json:"wallType,omitempty" yaml:"wall_type"`
}

type Section struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type Table struct {
	ID                string    `json:"id" yaml:"id"`
	Number            int       `json:"number" yaml:"number"`
	Seats             int       `json:"seats" yaml:"seats"`
	Shape             string    `json:"shape" yaml:"shape"`
	Position          Position  `json:"position" yaml:"position"`
	Size              Size      `json:"size" yaml:"size"`
	Status            string    `json:"status" yaml:"status"`
	Section           string    `json:"section,omitempty" yaml:"section"`
	Rotation          float64   `json:"rotation" yaml:"rotation"`
	SeatConfiguration string    `json:"seatConfiguration,omitempty" yaml:"seat_configuration"`
	HallID            string    `json:"hallId" yaml:"hall_id"`
	CreatedAt         time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt         time.Time `json:"updatedAt" yaml:"-"`
}

type Hall struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Width      float64   `json:"width" yaml:"width"`
	Height     float64   `json:"height" yaml:"height"`
	PixelRatio float64   `json:"pixelRatio" yaml:"pixel_ratio"`
	Sections   []Section `json:"sections" yaml:"sections"`
	Walls      []Wall    `json:"walls" yaml:"walls"`
	Tables     []Table   `json:"tables,omitempty" yaml:"tables"`
	CreatedAt  time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt  time.Time `json:"updatedAt" yaml:"-"`
}

// NormalizeWalls fills in the default wall type for records saved before the
// wallType field existed.
func NormalizeWalls(walls []Wall) []Wall {
	out := make([]Wall, len(walls))
	for i, w := range walls {
		if w.Type == "" {
			w.Type = "wall"
		}
		out[i] = w
	}
	return out
}
