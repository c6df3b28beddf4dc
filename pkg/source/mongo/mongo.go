// Package mongo stores task sets in a MongoDB collection, one document per
// task tagged with its project, generation and position.
//
// A second collection holds one document per project naming its current
// generation. Save writes a new generation, then switches the project
// document to it in a single-document update, so readers see either the old
// task set or the new one and a failed Save leaves the old set in place.
package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/taskflow/pkg/cache"
	"github.com/matzehuels/taskflow/pkg/errors"
	"github.com/matzehuels/taskflow/pkg/source"
	"github.com/matzehuels/taskflow/pkg/tasks"
)

// Defaults for Config.
const (
	DefaultDatabase   = "taskflow"
	DefaultCollection = "tasks"
)

// Config configures a MongoDB-backed provider.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// projectsSuffix names the project collection after the task collection.
const projectsSuffix = "_projects"

// document is the stored form of a task.
type document struct {
	Project    string `bson:"project"`
	Gen        string `bson:"gen"`
	Seq        int    `bson:"seq"`
	tasks.Task `bson:",inline"`
}

// projectDoc records a project's current generation. It exists for every
// saved project, including empty ones.
type projectDoc struct {
	ID        string    `bson:"_id"`
	Gen       string    `bson:"gen"`
	Count     int       `bson:"count"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Provider implements source.Provider, source.Lister and source.Writer on
// top of a MongoDB collection.
type Provider struct {
	client   *mongo.Client
	coll     *mongo.Collection
	projects *mongo.Collection
	owned    bool
}

// New connects to MongoDB, verifies the connection and ensures the
// (project, seq) index exists.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if err := errors.ValidateURL(cfg.URI, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect to mongodb")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return cache.Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "ping mongodb")
	}

	p := NewFromClient(client, cfg.Database, cfg.Collection)
	p.owned = true
	if err := p.ensureIndexes(ctx); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// NewFromClient wraps an existing client. Close does not disconnect it.
// Projects are tracked in the collection named collection + "_projects".
func NewFromClient(client *mongo.Client, database, collection string) *Provider {
	db := client.Database(database)
	return &Provider{
		client:   client,
		coll:     db.Collection(collection),
		projects: db.Collection(collection + projectsSuffix),
	}
}

func (p *Provider) ensureIndexes(ctx context.Context) error {
	_, err := p.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project", Value: 1}, {Key: "gen", Value: 1}, {Key: "seq", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "create index")
	}
	return nil
}

// Name returns "mongo".
func (p *Provider) Name() string { return "mongo" }

// Load returns the project's tasks in their saved order. A project that was
// never saved does not exist; one saved empty loads as an empty list.
func (p *Provider) Load(ctx context.Context, project string) ([]tasks.Task, error) {
	if project == "" {
		project = source.DefaultProject
	}
	if err := errors.ValidateProjectID(project); err != nil {
		return nil, err
	}

	var meta projectDoc
	err := p.projects.FindOne(ctx, bson.D{{Key: "_id", Value: project}}).Decode(&meta)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeProjectNotFound, "project %q not found", project)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "load project %s", project)
	}

	cur, err := p.coll.Find(ctx,
		bson.D{{Key: "project", Value: project}, {Key: "gen", Value: meta.Gen}},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "load project %s", project)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "load project %s", project)
	}

	out := make([]tasks.Task, len(docs))
	for i, d := range docs {
		out[i] = d.Task
	}
	return out, nil
}

// Save replaces the project's tasks. Duplicate ids are stored as given.
//
// The new tasks are inserted under a fresh generation before the project
// document is switched to it. Only then is the previous generation deleted;
// a failure there leaves unreachable documents but never a partial set.
func (p *Provider) Save(ctx context.Context, project string, ts []tasks.Task) error {
	if err := errors.ValidateProjectID(project); err != nil {
		return err
	}
	gen := uuid.NewString()

	if len(ts) > 0 {
		docs := make([]any, len(ts))
		for i, t := range ts {
			docs[i] = document{Project: project, Gen: gen, Seq: i, Task: t}
		}
		if _, err := p.coll.InsertMany(ctx, docs); err != nil {
			p.dropGeneration(project, gen)
			return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "save project %s", project)
		}
	}

	var prev projectDoc
	err := p.projects.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: project}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "gen", Value: gen},
			{Key: "count", Value: len(ts)},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before),
	).Decode(&prev)
	switch {
	case err == mongo.ErrNoDocuments:
		return nil
	case err != nil:
		p.dropGeneration(project, gen)
		return errors.Wrap(errors.ErrCodeSourceUnavailable, err, "save project %s", project)
	}

	// Only the generation this call replaced is removed, so a concurrent
	// Save that committed after us keeps its tasks.
	p.dropGeneration(project, prev.Gen)
	return nil
}

// dropGeneration deletes one generation of a project's documents. It runs
// after the caller's context may have ended, so it uses its own.
func (p *Provider) dropGeneration(project, gen string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = p.coll.DeleteMany(ctx, bson.D{{Key: "project", Value: project}, {Key: "gen", Value: gen}})
}

// Projects lists stored projects sorted by id, including empty ones.
func (p *Provider) Projects(ctx context.Context) ([]source.Project, error) {
	cur, err := p.projects.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "list projects")
	}

	var rows []projectDoc
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "list projects")
	}

	out := make([]source.Project, len(rows))
	for i, r := range rows {
		out[i] = source.Project{ID: r.ID, TaskCount: r.Count}
	}
	return out, nil
}

// Close disconnects the client if this provider created it.
func (p *Provider) Close() error {
	if !p.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.client.Disconnect(ctx)
}

var (
	_ source.Provider = (*Provider)(nil)
	_ source.Lister   = (*Provider)(nil)
	_ source.Writer   = (*Provider)(nil)
)
