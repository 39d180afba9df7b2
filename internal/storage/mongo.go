package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shaply/rmibridge/internal/config"
	"github.com/shaply/rmibridge/internal/errs"
	"github.com/shaply/rmibridge/internal/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store against MongoDB, one collection per
// resource family. Pool sizing and health-check-via-ping are adapted
// from the teacher's database/mongodb.go.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database

	programs      *mongo.Collection
	instructions  *mongo.Collection
	settings      *mongo.Collection
	connections   *mongo.Collection
	configurations *mongo.Collection
	ioDisplays    *mongo.Collection
}

// settingsDocID is the single fixed document id the robot_settings
// collection ever holds; global settings aren't keyed by anything else.
const settingsDocID = "global"

// Dial connects to MongoDB using config.Settings' URI and database name,
// applying the teacher's min/max pool size constants, and verifies the
// connection with a ping before returning.
func Dial(ctx context.Context, cfg config.Settings) (*MongoStore, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMinPoolSize(config.MongodbMinPoolSize).
		SetMaxPoolSize(config.MongodbMaxPoolSize)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := client.Database(cfg.MongoDatabase)
	s := &MongoStore{
		client:         client,
		db:             db,
		programs:       db.Collection("programs"),
		instructions:   db.Collection("program_instructions"),
		settings:       db.Collection("robot_settings"),
		connections:    db.Collection("saved_connections"),
		configurations: db.Collection("saved_configurations"),
		ioDisplays:     db.Collection("io_display_configs"),
	}
	logging.DebugPrint("connected to mongodb database %s", cfg.MongoDatabase)
	return s, nil
}

func (s *MongoStore) Ping(ctx context.Context) error { return s.client.Ping(ctx, nil) }

func (s *MongoStore) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// --- programs ---------------------------------------------------------

func (s *MongoStore) ListPrograms(ctx context.Context) ([]Program, error) {
	cur, err := s.programs.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []Program
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) GetProgram(ctx context.Context, id string) (*Program, error) {
	var p Program
	if err := s.programs.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) CreateProgram(ctx context.Context, name, description string) (*Program, error) {
	now := time.Now()
	p := Program{ID: uuid.NewString(), Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	if _, err := s.programs.InsertOne(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) DeleteProgram(ctx context.Context, id string) error {
	if err := s.ClearInstructions(ctx, id); err != nil {
		return err
	}
	res, err := s.programs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *MongoStore) UpdateProgramSettings(ctx context.Context, id, name, description string) error {
	res, err := s.programs.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name": name, "description": description, "updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- program instructions ---------------------------------------------

func (s *MongoStore) ClearInstructions(ctx context.Context, programID string) error {
	_, err := s.instructions.DeleteMany(ctx, bson.M{"program_id": programID})
	return err
}

func (s *MongoStore) AppendInstruction(ctx context.Context, instr ProgramInstruction) error {
	if instr.ID == "" {
		instr.ID = uuid.NewString()
	}
	_, err := s.instructions.InsertOne(ctx, instr)
	return err
}

func (s *MongoStore) ListInstructions(ctx context.Context, programID string) ([]ProgramInstruction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "line", Value: 1}})
	cur, err := s.instructions.Find(ctx, bson.M{"program_id": programID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []ProgramInstruction
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- robot settings -----------------------------------------------------

func (s *MongoStore) GetRobotSettings(ctx context.Context) (*RobotSettings, error) {
	var doc struct {
		ID string `bson:"_id"`
		RobotSettings `bson:",inline"`
	}
	err := s.settings.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return &RobotSettings{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.RobotSettings, nil
}

func (s *MongoStore) UpdateRobotSettings(ctx context.Context, rs RobotSettings) error {
	_, err := s.settings.UpdateOne(ctx, bson.M{"_id": settingsDocID},
		bson.M{"$set": rs}, options.Update().SetUpsert(true))
	return err
}

// --- saved connections ---------------------------------------------------

func (s *MongoStore) ListConnections(ctx context.Context) ([]SavedConnection, error) {
	cur, err := s.connections.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []SavedConnection
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) GetConnection(ctx context.Context, id string) (*SavedConnection, error) {
	var c SavedConnection
	if err := s.connections.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) CreateConnection(ctx context.Context, c SavedConnection) (*SavedConnection, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, err := s.connections.InsertOne(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) UpdateConnection(ctx context.Context, c SavedConnection) error {
	res, err := s.connections.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteConnection(ctx context.Context, id string) error {
	res, err := s.connections.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- saved configurations -------------------------------------------------

func (s *MongoStore) ListConfigurations(ctx context.Context, connectionID string) ([]SavedConfiguration, error) {
	cur, err := s.configurations.Find(ctx, bson.M{"connection_id": connectionID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []SavedConfiguration
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) GetConfiguration(ctx context.Context, id string) (*SavedConfiguration, error) {
	var c SavedConfiguration
	if err := s.configurations.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) CreateConfiguration(ctx context.Context, c SavedConfiguration) (*SavedConfiguration, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, err := s.configurations.InsertOne(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) UpdateConfiguration(ctx context.Context, c SavedConfiguration) error {
	res, err := s.configurations.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteConfiguration(ctx context.Context, id string) error {
	res, err := s.configurations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *MongoStore) SetDefaultConfiguration(ctx context.Context, connectionID, id string) error {
	if _, err := s.configurations.UpdateMany(ctx,
		bson.M{"connection_id": connectionID}, bson.M{"$set": bson.M{"is_default": false}}); err != nil {
		return err
	}
	res, err := s.configurations.UpdateOne(ctx, bson.M{"_id": id, "connection_id": connectionID},
		bson.M{"$set": bson.M{"is_default": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// --- I/O display config ---------------------------------------------------

func (s *MongoStore) GetIODisplayConfig(ctx context.Context, robotID string) (*IODisplayConfig, error) {
	var c IODisplayConfig
	err := s.ioDisplays.FindOne(ctx, bson.M{"_id": robotID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return &IODisplayConfig{RobotID: robotID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoStore) UpsertIODisplayConfig(ctx context.Context, cfg IODisplayConfig) error {
	_, err := s.ioDisplays.UpdateOne(ctx, bson.M{"_id": cfg.RobotID},
		bson.M{"$set": bson.M{"fields": cfg.Fields}}, options.Update().SetUpsert(true))
	return err
}
