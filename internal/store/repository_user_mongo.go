package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// MongoStore keeps each account as one document of the "users" collection
// with its tasks embedded as an array in insertion order. It implements all
// repository interfaces.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	logger *logger.Logger
}

func newMongoStore(client *mongo.Client, users *mongo.Collection, log *logger.Logger) *MongoStore {
	return &MongoStore{client: client, users: users, logger: log}
}

type userDocument struct {
	ID           string         `bson:"_id"`
	Name         string         `bson:"name"`
	Email        string         `bson:"email"`
	PasswordHash string         `bson:"password_hash"`
	Role         string         `bson:"role"`
	SecretKey    string         `bson:"secret_key"`
	Tasks        []taskDocument `bson:"tasks"`
	CreatedAt    time.Time      `bson:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at"`
}

type taskDocument struct {
	ID          string     `bson:"id"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Status      string     `bson:"status"`
	DueDate     *time.Time `bson:"due_date,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func toUserDocument(u models.User) userDocument {
	tasks := make([]taskDocument, 0, len(u.Tasks))
	for _, t := range u.Tasks {
		tasks = append(tasks, toTaskDocument(t))
	}
	return userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		SecretKey:    u.SecretKey,
		Tasks:        tasks,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) toModel() models.User {
	tasks := make([]models.Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		tasks = append(tasks, t.toModel())
	}
	return models.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         models.Role(d.Role),
		SecretKey:    d.SecretKey,
		Tasks:        tasks,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toTaskDocument(t models.Task) taskDocument {
	return taskDocument{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDocument) toModel() models.Task {
	return models.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Status:      models.TaskStatus(d.Status),
		DueDate:     d.DueDate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// CreateUser inserts the account, promoting it to admin when the collection
// is empty.
func (s *MongoStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	hasUsers, err := s.HasUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	if !hasUsers {
		user.Role = models.RoleAdmin
	}
	user.Tasks = []models.Task{}

	if _, err = s.users.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "MongoStore.CreateUser").Str("email", user.Email).Msg("failed to insert user")
		return models.User{}, fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}

	return user, nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findUser(ctx, "MongoStore.FindUserByEmail", bson.D{{Key: "email", Value: email}})
}

func (s *MongoStore) FindUserByID(ctx context.Context, id string) (models.User, error) {
	return s.findUser(ctx, "MongoStore.FindUserByID", bson.D{{Key: "_id", Value: id}})
}

func (s *MongoStore) findUser(ctx context.Context, funcName string, filter bson.D) (models.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("failed to find user")
		return models.User{}, fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}
	return doc.toModel(), nil
}

// UpdateUser sets the non-nil fields of update and returns the document
// after the update.
func (s *MongoStore) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (models.User, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now().UTC()}}
	if update.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *update.Name})
	}
	if update.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *update.Email})
	}
	if update.PasswordHash != nil {
		set = append(set, bson.E{Key: "password_hash", Value: *update.PasswordHash})
	}
	if update.SecretKey != nil {
		set = append(set, bson.E{Key: "secret_key", Value: *update.SecretKey})
	}

	var doc userDocument
	err := s.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return models.User{}, ErrUserNotFound
		case mongo.IsDuplicateKeyError(err):
			return models.User{}, ErrEmailAlreadyExists
		}
		logger.FromContext(ctx).Err(err).Str("func", "MongoStore.UpdateUser").Str("user_id", id).Msg("failed to update user")
		return models.User{}, fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}

	return doc.toModel(), nil
}

// HasUsers reports whether the collection holds at least one document.
func (s *MongoStore) HasUsers(ctx context.Context) (bool, error) {
	err := s.users.FindOne(ctx, bson.D{},
		options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}}),
	).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return false, nil
	default:
		logger.FromContext(ctx).Err(err).Str("func", "MongoStore.HasUsers").Msg("failed to check whether users exist")
		return false, fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}
}

func (s *MongoStore) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	log := logger.FromContext(ctx)

	cursor, err := s.users.Find(ctx,
		bson.D{{Key: "role", Value: string(role)}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		log.Err(err).Str("func", "MongoStore.ListUsersByRole").Str("role", string(role)).Msg("failed to query users")
		return nil, fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}

	var docs []userDocument
	if err = cursor.All(ctx, &docs); err != nil {
		log.Err(err).Str("func", "MongoStore.ListUsersByRole").Msg("failed to decode users")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toModel())
	}
	return users, nil
}

// AppendTask pushes task to the end of the embedded task array.
func (s *MongoStore) AppendTask(ctx context.Context, userID string, task models.Task) (models.Task, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: userID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "tasks", Value: toTaskDocument(task)}}}},
	)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "MongoStore.AppendTask").
			Str("user_id", userID).
			Str("task_id", task.ID).
			Msg("failed to push task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}
	if res.MatchedCount == 0 {
		return models.Task{}, ErrUserNotFound
	}
	return task, nil
}

// SetTaskStatus updates the matching embedded task through the positional
// operator. A task id that belongs to another user never matches.
func (s *MongoStore) SetTaskStatus(ctx context.Context, userID, taskID string, status models.TaskStatus, at time.Time) (models.Task, error) {
	var doc userDocument
	err := s.users.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: userID}, {Key: "tasks.id", Value: taskID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "tasks.$.status", Value: string(status)},
			{Key: "tasks.$.updated_at", Value: at},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Task{}, ErrTaskNotFound
		}
		logger.FromContext(ctx).Err(err).
			Str("func", "MongoStore.SetTaskStatus").
			Str("user_id", userID).
			Str("task_id", taskID).
			Msg("failed to update task status")
		return models.Task{}, fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}

	for _, t := range doc.Tasks {
		if t.ID == taskID {
			return t.toModel(), nil
		}
	}
	return models.Task{}, ErrTaskNotFound
}

// ResetUsers empties the collection and inserts users. The two steps are not
// atomic on a standalone server.
func (s *MongoStore) ResetUsers(ctx context.Context, users []models.User) error {
	log := logger.FromContext(ctx)

	if _, err := s.users.DeleteMany(ctx, bson.D{}); err != nil {
		log.Err(err).Str("func", "MongoStore.ResetUsers").Msg("failed to wipe users")
		return fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}
	if len(users) == 0 {
		return nil
	}

	docs := make([]any, 0, len(users))
	for _, u := range users {
		docs = append(docs, toUserDocument(u))
	}
	if _, err := s.users.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "MongoStore.ResetUsers").Msg("failed to insert users")
		return fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}

	log.Info().Str("func", "MongoStore.ResetUsers").Int("users", len(users)).Msg("store seeded")
	return nil
}

// Ping checks that the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrDocumentOperation, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
