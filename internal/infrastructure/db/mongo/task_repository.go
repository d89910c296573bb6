package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
)

const taskCollection = "tasks"

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(taskCollection)}
}

type mongoTask struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Type        string             `bson:"type"`
	UserID      string             `bson:"user_id"`
	IsDeleted   bool               `bson:"is_deleted"`
	CreatedAt   int64              `bson:"created_at"`
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	doc := mongoTask{
		Title:       task.Title,
		Description: task.Description,
		Type:        string(task.Type),
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *task
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// FindByUser returns the user's tasks, skipping soft-deleted ones.
func (r *TaskRepository) FindByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID, "is_deleted": false})
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []domain.Task
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, *mt.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, id, userID string, fields ports.TaskUpdate) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	set := bson.M{}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Type != nil {
		set["type"] = string(*fields.Type)
	}
	if len(set) == 0 {
		// Nothing to change; an empty $set is a Mongo error.
		return r.findByID(ctx, oid, userID)
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": oid, "user_id": userID}, bson.M{"$set": set})
}

// SoftDelete flips is_deleted on a task owned by userID.
func (r *TaskRepository) SoftDelete(ctx context.Context, id, userID string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	return r.findOneAndUpdate(ctx,
		bson.M{"_id": oid, "user_id": userID, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true}})
}

func (r *TaskRepository) findByID(ctx context.Context, oid primitive.ObjectID, userID string) (*domain.Task, error) {
	var mt mongoTask
	err := r.coll.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&mt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*domain.Task, error) {
	var mt mongoTask
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mt)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return mt.toDomain(), nil
}

func (mt *mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:          mt.ID.Hex(),
		Title:       mt.Title,
		Description: mt.Description,
		Type:        domain.TaskType(mt.Type),
		UserID:      mt.UserID,
		IsDeleted:   mt.IsDeleted,
		CreatedAt:   unixToTime(mt.CreatedAt),
	}
}
