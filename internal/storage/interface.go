package storage

import "context"

// Store is the storage contract spec.md §6 describes: the core consumes
// these operations from an opaque collaborator. MongoStore is the only
// implementation, but handlers in internal/hub depend on this interface
// so tests can substitute a fake.
type Store interface {
	ListPrograms(ctx context.Context) ([]Program, error)
	GetProgram(ctx context.Context, id string) (*Program, error)
	CreateProgram(ctx context.Context, name, description string) (*Program, error)
	DeleteProgram(ctx context.Context, id string) error
	UpdateProgramSettings(ctx context.Context, id, name, description string) error

	ClearInstructions(ctx context.Context, programID string) error
	AppendInstruction(ctx context.Context, instr ProgramInstruction) error
	ListInstructions(ctx context.Context, programID string) ([]ProgramInstruction, error)

	GetRobotSettings(ctx context.Context) (*RobotSettings, error)
	UpdateRobotSettings(ctx context.Context, s RobotSettings) error

	ListConnections(ctx context.Context) ([]SavedConnection, error)
	GetConnection(ctx context.Context, id string) (*SavedConnection, error)
	CreateConnection(ctx context.Context, c SavedConnection) (*SavedConnection, error)
	UpdateConnection(ctx context.Context, c SavedConnection) error
	DeleteConnection(ctx context.Context, id string) error

	ListConfigurations(ctx context.Context, connectionID string) ([]SavedConfiguration, error)
	GetConfiguration(ctx context.Context, id string) (*SavedConfiguration, error)
	CreateConfiguration(ctx context.Context, c SavedConfiguration) (*SavedConfiguration, error)
	UpdateConfiguration(ctx context.Context, c SavedConfiguration) error
	DeleteConfiguration(ctx context.Context, id string) error
	SetDefaultConfiguration(ctx context.Context, connectionID, id string) error

	GetIODisplayConfig(ctx context.Context, robotID string) (*IODisplayConfig, error)
	UpsertIODisplayConfig(ctx context.Context, cfg IODisplayConfig) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
