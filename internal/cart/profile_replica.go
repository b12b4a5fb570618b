package cart

import (
	"context"
	"encoding/json"
	"time"

	"atelier_back_end/internal/database"
	"atelier_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ProfileReplica est la réplique distante : colonne JSON `cart` de la
// table profiles (keyspace users), écrite après debounce.
type ProfileReplica struct{}

func (p *ProfileReplica) Load(ctx context.Context, userID string) ([]models.CartItem, error) {
	q, err := database.GetPreparedGetProfileCart()
	if err != nil {
		return nil, err
	}

	var data string
	err = q.Bind(userID).WithContext(ctx).Scan(&data)
	if err == gocql.ErrNotFound {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	if data == "" {
		return []models.CartItem{}, nil
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *ProfileReplica) Save(ctx context.Context, userID string, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	q, err := database.GetPreparedSaveProfileCart()
	if err != nil {
		return err
	}
	return q.Bind(string(data), time.Now(), userID).WithContext(ctx).Exec()
}

func (p *ProfileReplica) Clear(ctx context.Context, userID string) error {
	q, err := database.GetPreparedSaveProfileCart()
	if err != nil {
		return err
	}
	return q.Bind("[]", time.Now(), userID).WithContext(ctx).Exec()
}
