package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fitcoach/platform/internal/domain"
	"fitcoach/platform/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const foodItemCollectionName = "food_items"

type mongoFoodItemRepository struct {
	collection *mongo.Collection
}

// NewMongoFoodItemRepository creates the food catalogue repository.
func NewMongoFoodItemRepository(db *mongo.Database) repository.FoodItemRepository {
	return &mongoFoodItemRepository{
		collection: db.Collection(foodItemCollectionName),
	}
}

// Create inserts a food item. Names are unique; a taken name yields repository.ErrDuplicate.
func (r *mongoFoodItemRepository) Create(ctx context.Context, item *domain.FoodItem) (primitive.ObjectID, error) {
	if strings.TrimSpace(item.Name) == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: food item name is required", repository.ErrInvalid)
	}
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return primitive.NilObjectID, translate(err)
	}
	return insertedID(result)
}

func (r *mongoFoodItemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error) {
	var item domain.FoodItem
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// GetByIDs resolves a batch of food items. Missing ids are simply absent from the result.
func (r *mongoFoodItemRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.FoodItem, error) {
	if len(ids) == 0 {
		return []domain.FoodItem{}, nil
	}
	return findAll[domain.FoodItem](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *mongoFoodItemRepository) List(ctx context.Context, search string, category domain.FoodCategory) ([]domain.FoodItem, error) {
	filter := bson.M{}
	if s := strings.TrimSpace(search); s != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
	}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[domain.FoodItem](ctx, r.collection, filter, opts)
}

func foodItemIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	}
}
