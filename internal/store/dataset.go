package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ayusman/fingerspell/internal/dataset"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Dataset represents an archived recording session.
type Dataset struct {
	ID        string
	Name      string
	Samples   int
	CreatedAt time.Time
}

// DatasetRepository provides CRUD operations for archived datasets.
type DatasetRepository struct {
	db *sql.DB
}

// Datasets returns the dataset repository for this store.
func (s *Store) Datasets() *DatasetRepository {
	return &DatasetRepository{db: s.db}
}

// Create archives a recording session: it inserts the dataset row and all
// samples in recording order inside a single transaction.
func (r *DatasetRepository) Create(d *Dataset, samples []dataset.Sample) error {
	d.CreatedAt = time.Now()
	d.Samples = len(samples)

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO datasets (id, name, samples, created_at) VALUES (?, ?, ?, ?)`,
		d.ID, d.Name, d.Samples, d.CreatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO dataset_samples (dataset_id, sample_index, label, features) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range samples {
		features, err := json.Marshal(s.Features)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(d.ID, i, s.Label, string(features)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a dataset by its ID.
func (r *DatasetRepository) GetByID(id string) (*Dataset, error) {
	d := &Dataset{}

	err := r.db.QueryRow(
		`SELECT id, name, samples, created_at FROM datasets WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Name, &d.Samples, &d.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return d, nil
}

// List retrieves all archived datasets, newest first.
func (r *DatasetRepository) List() ([]*Dataset, error) {
	rows, err := r.db.Query(
		`SELECT id, name, samples, created_at FROM datasets ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var datasets []*Dataset
	for rows.Next() {
		d := &Dataset{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Samples, &d.CreatedAt); err != nil {
			return nil, err
		}
		datasets = append(datasets, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return datasets, nil
}

// GetSamples retrieves a dataset's samples in recording order, rebuilding
// the exact list that was archived.
func (r *DatasetRepository) GetSamples(id string) ([]dataset.Sample, error) {
	// Verify the dataset exists so a missing id is not an empty list
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT label, features FROM dataset_samples WHERE dataset_id = ? ORDER BY sample_index`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []dataset.Sample
	for rows.Next() {
		var s dataset.Sample
		var features string
		if err := rows.Scan(&s.Label, &features); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(features), &s.Features); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// Delete removes a dataset and its samples by ID.
func (r *DatasetRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
