package projects

import (
	"context"
	"time"

	"github.com/helpinghands/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository using a Mongo collection.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	// listing is always sorted by creation time
	idx := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.JoinedVolunteers == nil {
		p.JoinedVolunteers = []string{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Project{}
	for cur.Next(ctx) {
		var p models.Project
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

// AddVolunteer performs an atomic $addToSet so concurrent joins for the same
// (project, user) pair cannot produce a duplicate roster entry. A missing or
// malformed joinedVolunteers field is reset to an empty array first.
func (r *MongoRepository) AddVolunteer(ctx context.Context, projectID, userID string) (*models.Project, error) {
	heal := bson.M{"_id": projectID, "joinedVolunteers": bson.M{"$not": bson.M{"$type": "array"}}}
	if _, err := r.col.UpdateOne(ctx, heal, bson.M{"$set": bson.M{"joinedVolunteers": []string{}}}); err != nil {
		return nil, err
	}

	update := bson.M{
		"$addToSet": bson.M{"joinedVolunteers": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Project
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": projectID}, update, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
