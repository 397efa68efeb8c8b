package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// ShipmentRepository persists shipments. Packages are stored separately and
// referenced by id.
type ShipmentRepository struct {
	collection *mongo.Collection
}

// NewShipmentRepository creates a new shipment repository.
func NewShipmentRepository(db *MongoDB) *ShipmentRepository {
	return &ShipmentRepository{
		collection: db.Shipments,
	}
}

// Save creates or replaces the shipment document.
func (r *ShipmentRepository) Save(ctx context.Context, shipment *model.Shipment) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": shipment.ID},
		shipment,
		options.Replace().SetUpsert(true),
	)
	return err
}

// FindByID returns the shipment or nil when it does not exist.
func (r *ShipmentRepository) FindByID(ctx context.Context, id string) (*model.Shipment, error) {
	var shipment model.Shipment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&shipment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// FindByOrder returns every shipment of an order, oldest first.
func (r *ShipmentRepository) FindByOrder(ctx context.Context, orderID string) ([]*model.Shipment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var shipments []*model.Shipment
	if err := cursor.All(ctx, &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

// Delete removes the shipment. Deleting a missing shipment is not an error.
func (r *ShipmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
