package providerRepo

import (
	"context"

	"slotwise/database/repository"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
)

// generalSearchFields are matched by a free-text search.
var generalSearchFields = []string{"serviceName", "description", "city", "state", "address", "username"}

// SearchFilter builds the query for a search on field. A blank term matches everything.
func SearchFilter(field models.ProviderSearchField, term string) bson.M {
	if term == "" {
		return bson.M{}
	}
	match := repository.ContainsFold(term)
	switch field {
	case models.SearchServiceName, models.SearchCity, models.SearchDescription:
		return bson.M{string(field): match}
	default:
		or := make(bson.A, 0, len(generalSearchFields))
		for _, f := range generalSearchFields {
			or = append(or, bson.M{f: match})
		}
		return bson.M{"$or": or}
	}
}

func (r *MongoProviderRepo) Search(ctx context.Context, field models.ProviderSearchField, term string) ([]models.Provider, error) {
	return r.find(ctx, SearchFilter(field, term))
}

func (r *MongoProviderRepo) SearchPage(ctx context.Context, field models.ProviderSearchField, term string, req models.PageRequest) ([]models.Provider, int64, error) {
	return r.findPage(ctx, SearchFilter(field, term), req)
}
