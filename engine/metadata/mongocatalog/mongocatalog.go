// Package mongocatalog implements a metadata.Oracle backed by a MongoDB
// collection of {table, column, kind, strLen} documents, for deployments
// that keep their schema catalog in Mongo rather than a SQL system table.
package mongocatalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sqlmv/rewriter/engine/metadata"
)

// CatalogOracle resolves column types from a Mongo collection.
type CatalogOracle struct {
	coll *mongo.Collection
}

// New builds a CatalogOracle over coll.
func New(coll *mongo.Collection) *CatalogOracle {
	return &CatalogOracle{coll: coll}
}

type catalogDoc struct {
	Table  string `bson:"table"`
	Column string `bson:"column"`
	Kind   int    `bson:"kind"`
	StrLen int    `bson:"strLen"`
}

func (o *CatalogOracle) TypeOf(ctx context.Context, table, column string) (metadata.ColumnType, error) {
	filter := bson.M{"table": table, "column": column}
	var doc catalogDoc
	if err := o.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return metadata.ColumnType{}, metadata.ErrUnknownColumn
		}
		return metadata.ColumnType{}, fmt.Errorf("mongocatalog: lookup %s.%s: %w", table, column, err)
	}
	return metadata.ColumnType{Kind: metadata.SQLType(doc.Kind), StrLen: doc.StrLen}, nil
}

// Put inserts or replaces the catalog entry for one column; useful for
// tests and for seeding a catalog from a schema migration.
func (o *CatalogOracle) Put(ctx context.Context, table, column string, ct metadata.ColumnType) error {
	filter := bson.M{"table": table, "column": column}
	update := bson.M{"$set": catalogDoc{Table: table, Column: column, Kind: int(ct.Kind), StrLen: ct.StrLen}}
	_, err := o.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
