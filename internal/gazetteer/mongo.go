package gazetteer

import (
	"context"
	"fmt"

	"github.com/geonames/csc-resolver/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIndex is the canonical Gazetteer Index backend: one Mongo
// collection per entity kind, populated by the (out-of-scope) ingest
// pipeline and queried read-only here. Collection/field names follow
// §6's persisted index layout so the ingest pipeline's writes line up
// with these reads without translation.
type MongoIndex struct {
	db *mongo.Database
}

func NewMongoIndex(db *mongo.Database) *MongoIndex {
	return &MongoIndex{db: db}
}

func (idx *MongoIndex) coll(c models.Collection) *mongo.Collection {
	return idx.db.Collection(string(c))
}

// Version reads the single `util` collection record written at build
// completion. Its absence is the §7 fatal IndexMissing condition.
func (idx *MongoIndex) Version(ctx context.Context) (string, error) {
	var doc struct {
		Value string `bson:"value"`
	}
	err := idx.db.Collection("util").FindOne(ctx, bson.M{"name": "version"}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", ErrIndexMissing
	}
	if err != nil {
		return "", fmt.Errorf("gazetteer: reading version record: %w", err)
	}
	return doc.Value, nil
}

func (idx *MongoIndex) Get(ctx context.Context, collection models.Collection, gid int64) (models.Record, error) {
	rec := newRecord(collection)
	if rec == nil {
		return nil, fmt.Errorf("gazetteer: unknown collection %q", collection)
	}
	err := idx.coll(collection).FindOne(ctx, bson.M{"gid": gid}).Decode(rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (idx *MongoIndex) Find(ctx context.Context, collection models.Collection, q Query) ([]models.Record, error) {
	filter := toMongoFilter(q)
	cur, err := idx.coll(collection).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "population", Value: -1}, {Key: "gid", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Record
	for cur.Next(ctx) {
		rec := newRecord(collection)
		if rec == nil {
			continue
		}
		if err := cur.Decode(rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	// Mongo already sorted on (population desc, gid asc); re-assert the
	// invariant locally so callers never depend on index-config drift.
	SortByPopulationThenGID(out)
	return out, cur.Err()
}

func (idx *MongoIndex) Count(ctx context.Context, collection models.Collection, q Query) (int, error) {
	n, err := idx.coll(collection).CountDocuments(ctx, toMongoFilter(q))
	return int(n), err
}

func toMongoFilter(q Query) bson.M {
	filter := bson.M{}
	if q.CountryCode != "" {
		filter["country_code"] = q.CountryCode
	}
	if q.ISO != "" {
		filter["iso"] = q.ISO
	}
	if q.ISO3 != "" {
		filter["iso3"] = q.ISO3
	}
	if q.Admin1 != "" {
		filter["admin1"] = q.Admin1
	}
	if q.Names != "" {
		filter["names." + q.Names] = bson.M{"$exists": true}
	}
	if q.Admin1Names != "" {
		filter["admin1names." + q.Admin1Names] = bson.M{"$exists": true}
	}
	if q.Admin2Names != "" {
		filter["admin2names." + q.Admin2Names] = bson.M{"$exists": true}
	}
	if q.Abbr != "" {
		filter["abbr." + q.Abbr] = bson.M{"$exists": true}
	}
	// With Lang unset, only the "en" list is searched; names held only in
	// other languages' lists are not matched.
	if q.NamesLang != "" {
		lang := q.Lang
		if lang == "" {
			lang = "en"
		}
		filter["names_lang." + lang] = q.NamesLang
	}
	return filter
}

func newRecord(collection models.Collection) models.Record {
	switch collection {
	case models.CollCountries:
		return &models.Country{}
	case models.CollAdmin1:
		return &models.Admin1{}
	case models.CollAdmin2:
		return &models.Admin2{}
	case models.CollAdmd:
		return &models.Admd{}
	case models.CollCities:
		return &models.City{}
	default:
		return nil
	}
}
