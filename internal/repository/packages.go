package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/shipment-packaging/internal/domain/model"
)

// PackageRepository persists packages.
type PackageRepository struct {
	collection *mongo.Collection
}

// NewPackageRepository creates a new package repository.
func NewPackageRepository(db *MongoDB) *PackageRepository {
	return &PackageRepository{
		collection: db.Packages,
	}
}

// Save creates or replaces the package document.
func (r *PackageRepository) Save(ctx context.Context, pkg *model.Package) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": pkg.ID},
		pkg,
		options.Replace().SetUpsert(true),
	)
	return err
}

// FindByIDs returns the packages in the order of ids. Unknown ids are skipped.
func (r *PackageRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error) {
	if len(ids) == 0 {
		return []*model.Package{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var found []*model.Package
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	return orderPackages(ids, found), nil
}

// FindByShipment returns every package stored for a shipment.
func (r *PackageRepository) FindByShipment(ctx context.Context, shipmentID string) ([]*model.Package, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"shipment_id": shipmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var packages []*model.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// DeleteMany removes the packages with the given ids.
func (r *PackageRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// orderPackages arranges found in the order of ids.
func orderPackages(ids []string, found []*model.Package) []*model.Package {
	byID := make(map[string]*model.Package, len(found))
	for _, pkg := range found {
		byID[pkg.ID] = pkg
	}
	ordered := make([]*model.Package, 0, len(ids))
	for _, id := range ids {
		if pkg, ok := byID[id]; ok {
			ordered = append(ordered, pkg)
		}
	}
	return ordered
}
