// Package storage implements the external storage contract of spec.md §6
// against MongoDB: one collection per resource family, covering program
// CRUD, per-program instruction lists, global robot settings, saved robot
// connections, saved per-connection configurations, and per-robot I/O
// display configuration.
//
// Grounded on the teacher's database/mongodb.go connection-pooling and
// health-check pattern, narrowed from a generic multi-robot store down to
// this bridge's fixed set of resource families.
package storage

import (
	"time"

	"github.com/shaply/rmibridge/internal/protocol"
)

// Program is a named, storable sequence of instructions. Instructions
// themselves live in the program_instructions collection, keyed by
// ProgramID, so large programs don't bloat the program document.
type Program struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// ProgramInstruction is one line of a program: a tagged instruction
// payload (decoded through internal/protocol when executed) at a fixed
// line number.
type ProgramInstruction struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	ProgramID string `bson:"program_id" json:"program_id"`
	Line      int    `bson:"line" json:"line"`
	Family    string `bson:"family" json:"family"`
	Variant   string `bson:"variant" json:"variant"`
	Payload   []byte `bson:"payload" json:"payload"`
}

// RobotSettings holds the global defaults applied when no saved
// connection or configuration overrides them.
type RobotSettings struct {
	DefaultSpeed     float64 `bson:"default_speed" json:"default_speed"`
	DefaultSpeedType string  `bson:"default_speed_type" json:"default_speed_type"`
	DefaultTermType  string  `bson:"default_term_type" json:"default_term_type"`
	DefaultTermValue int     `bson:"default_term_value" json:"default_term_value"`
}

// JogDefaults holds per-connection manual-jog defaults.
type JogDefaults struct {
	Speed     float64 `bson:"speed" json:"speed"`
	SpeedType string  `bson:"speed_type" json:"speed_type"`
	Increment float64 `bson:"increment" json:"increment"`
}

// SavedConnection is a remembered robot controller address, plus the
// per-connection motion and jog defaults applied when it's selected.
type SavedConnection struct {
	ID             string      `bson:"_id,omitempty" json:"id"`
	Name           string      `bson:"name" json:"name"`
	Host           string      `bson:"host" json:"host"`
	ControlPort    string      `bson:"control_port" json:"control_port"`
	MotionDefaults RobotSettings `bson:"motion_defaults" json:"motion_defaults"`
	JogDefaults    JogDefaults   `bson:"jog_defaults" json:"jog_defaults"`
}

// SavedConfiguration is a named arm posture a client can save and later
// reload for a given connection. Exactly one per connection may be
// IsDefault.
type SavedConfiguration struct {
	ID           string                  `bson:"_id,omitempty" json:"id"`
	ConnectionID string                  `bson:"connection_id" json:"connection_id"`
	Name         string                  `bson:"name" json:"name"`
	Configuration protocol.Configuration `bson:"configuration" json:"configuration"`
	IsDefault    bool                    `bson:"is_default" json:"is_default"`
}

// IODisplayField names one digital/analog I/O point a client's dashboard
// should render.
type IODisplayField struct {
	Index int    `bson:"index" json:"index"`
	Label string `bson:"label" json:"label"`
	Kind  string `bson:"kind" json:"kind"` // "din", "dout", "ain", "aout"
}

// IODisplayConfig is the set of I/O points a particular robot's clients
// should surface, keyed by RobotID (the saved connection id).
type IODisplayConfig struct {
	RobotID string           `bson:"_id,omitempty" json:"robot_id"`
	Fields  []IODisplayField `bson:"fields" json:"fields"`
}
