package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The record engine is collection-agnostic: records cross its boundary
// as structs, get marshaled into a JSON document, and the document is
// what the store persists. Indexed key paths are mirrored into real
// columns on write so lookups run against SQLite indexes.

// IndexKey addresses an entry of a possibly composite index.
type IndexKey []any

// Key builds an IndexKey, e.g. Key(userID, date) for userDate.
func Key(parts ...any) IndexKey { return IndexKey(parts) }

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func toDoc(rec any) (map[string]any, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return doc, nil
}

func fromDoc(doc map[string]any, out any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// indexValue converts a document field into its index-column form.
// Everything is stored as TEXT; booleans become "true"/"false".
func indexValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func quoteCols(cols []string) []string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return quoted
}

// stamp assigns the key (for uuid-keyed collections), createdAt if
// absent and updatedAt always, returning the storage key.
func stamp(c collectionDef, doc map[string]any) (string, error) {
	key, _ := doc[c.KeyPath].(string)
	if key == "" {
		if c.KeyPath != "id" {
			return "", fmt.Errorf("%w: %s record missing %q", ErrValidation, c.Name, c.KeyPath)
		}
		key = uuid.NewString()
		doc["id"] = key
	}
	if v, _ := doc["createdAt"].(string); v == "" {
		doc["createdAt"] = nowStamp()
	}
	doc["updatedAt"] = nowStamp()
	return key, nil
}

// Add inserts a new record, assigning an identifier if absent and
// stamping createdAt/updatedAt. The stamped document is written back
// into rec, which must be a pointer. A unique-index collision returns
// ErrConstraint.
func (s *Store) Add(collection string, rec any) error {
	c, ok := collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	key, err := stamp(c, doc)
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	cols := c.indexedColumns()
	names := append([]string{fmt.Sprintf("%q", c.KeyPath), `"data"`}, quoteCols(cols)...)
	args := []any{key, string(data)}
	for _, col := range cols {
		args = append(args, indexValue(doc[col]))
	}

	query := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		c.Name, strings.Join(names, ", "), placeholders(len(args)))
	if _, err := s.q.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("add %s: %w", collection, ErrConstraint)
		}
		return fmt.Errorf("add %s: %w", collection, err)
	}
	return fromDoc(doc, rec)
}

// Update replaces the stored record in place, re-stamping updatedAt.
// The record must already carry its key. This is an upsert-by-key:
// updating a nonexistent key creates it, intentionally; existence
// checks belong to the entity layer.
func (s *Store) Update(collection string, rec any) error {
	c, ok := collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	if k, _ := doc[c.KeyPath].(string); k == "" {
		return fmt.Errorf("%w: update %s: record missing %q", ErrValidation, collection, c.KeyPath)
	}
	key, err := stamp(c, doc)
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	cols := c.indexedColumns()
	names := append([]string{fmt.Sprintf("%q", c.KeyPath), `"data"`}, quoteCols(cols)...)
	args := []any{key, string(data)}
	var sets []string
	sets = append(sets, `"data" = excluded."data"`)
	for _, col := range cols {
		args = append(args, indexValue(doc[col]))
		sets = append(sets, fmt.Sprintf("%q = excluded.%q", col, col))
	}

	// Upsert by primary key only; collisions on secondary unique
	// indexes still fail rather than displacing another record.
	query := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s) ON CONFLICT(%q) DO UPDATE SET %s",
		c.Name, strings.Join(names, ", "), placeholders(len(args)), c.KeyPath, strings.Join(sets, ", "))
	if _, err := s.q.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update %s: %w", collection, ErrConstraint)
		}
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return fromDoc(doc, rec)
}

// Get loads a record by key into out. A missing record is (false, nil),
// not an error.
func (s *Store) Get(collection, id string, out any) (bool, error) {
	c, ok := collections[collection]
	if !ok {
		return false, fmt.Errorf("unknown collection %q", collection)
	}
	var data []byte
	query := fmt.Sprintf("SELECT \"data\" FROM %q WHERE %q = ?", c.Name, c.KeyPath)
	err := s.q.QueryRow(query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s %s: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode record: %w", err)
	}
	return true, nil
}

// GetAll loads every record of a collection into out (a pointer to a
// slice). Insertion order is not guaranteed.
func (s *Store) GetAll(collection string, out any) error {
	c, ok := collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	rows, err := s.q.Query(fmt.Sprintf("SELECT \"data\" FROM %q", c.Name))
	if err != nil {
		return fmt.Errorf("get all %s: %w", collection, err)
	}
	return collectInto(rows, out)
}

// Remove deletes by key; removing an absent record is a no-op.
func (s *Store) Remove(collection, id string) error {
	c, ok := collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	query := fmt.Sprintf("DELETE FROM %q WHERE %q = ?", c.Name, c.KeyPath)
	if _, err := s.q.Exec(query, id); err != nil {
		return fmt.Errorf("remove %s %s: %w", collection, id, err)
	}
	return nil
}

// GetByIndex loads every record whose index entry equals key, in the
// index's ascending key order.
func (s *Store) GetByIndex(collection, index string, key IndexKey, out any) error {
	c, idx, err := resolveIndex(collection, index)
	if err != nil {
		return err
	}
	if len(key) != len(idx.KeyPaths) {
		return fmt.Errorf("index %q on %q wants %d key parts, got %d",
			index, collection, len(idx.KeyPaths), len(key))
	}

	var where []string
	var args []any
	for i, kp := range idx.KeyPaths {
		where = append(where, fmt.Sprintf("%q = ?", kp))
		args = append(args, indexValue(key[i]))
	}

	query := fmt.Sprintf("SELECT \"data\" FROM %q WHERE %s ORDER BY %s, %q",
		c.Name, strings.Join(where, " AND "),
		strings.Join(quoteCols(idx.KeyPaths), ", "), c.KeyPath)
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return fmt.Errorf("get %s by %s: %w", collection, index, err)
	}
	return collectInto(rows, out)
}

// GetByIndexRange loads records whose index entries fall in
// [lower, upper], both bounds inclusive, in ascending index order.
// Composite ranges must share every key part but the last, which is the
// only form the schema's lookups need.
func (s *Store) GetByIndexRange(collection, index string, lower, upper IndexKey, out any) error {
	c, idx, err := resolveIndex(collection, index)
	if err != nil {
		return err
	}
	n := len(idx.KeyPaths)
	if len(lower) != n || len(upper) != n {
		return fmt.Errorf("index %q on %q wants %d key parts", index, collection, n)
	}

	var where []string
	var args []any
	for i := 0; i < n-1; i++ {
		lo, hi := indexValue(lower[i]), indexValue(upper[i])
		if lo != hi {
			return fmt.Errorf("index %q on %q: range bounds must share their leading key parts", index, collection)
		}
		where = append(where, fmt.Sprintf("%q = ?", idx.KeyPaths[i]))
		args = append(args, lo)
	}
	last := idx.KeyPaths[n-1]
	where = append(where, fmt.Sprintf("%q >= ? AND %q <= ?", last, last))
	args = append(args, indexValue(lower[n-1]), indexValue(upper[n-1]))

	query := fmt.Sprintf("SELECT \"data\" FROM %q WHERE %s ORDER BY %s, %q",
		c.Name, strings.Join(where, " AND "),
		strings.Join(quoteCols(idx.KeyPaths), ", "), c.KeyPath)
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return fmt.Errorf("get %s by %s range: %w", collection, index, err)
	}
	return collectInto(rows, out)
}

// Clear deletes every record of a collection.
func (s *Store) Clear(collection string) error {
	c, ok := collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	if _, err := s.q.Exec(fmt.Sprintf("DELETE FROM %q", c.Name)); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// CountRecords reports how many records a collection holds.
func (s *Store) CountRecords(collection string) (int64, error) {
	c, ok := collections[collection]
	if !ok {
		return 0, fmt.Errorf("unknown collection %q", collection)
	}
	var n int64
	err := s.q.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", c.Name)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func resolveIndex(collection, index string) (collectionDef, indexDef, error) {
	c, ok := collections[collection]
	if !ok {
		return collectionDef{}, indexDef{}, fmt.Errorf("unknown collection %q", collection)
	}
	idx, ok := c.index(index)
	if !ok {
		return collectionDef{}, indexDef{}, fmt.Errorf("unknown index %q on %q", index, collection)
	}
	return c, idx, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// collectInto decodes a data-column result set into out, a pointer to a
// slice of records.
func collectInto(rows *sql.Rows, out any) error {
	defer rows.Close()
	raws := []json.RawMessage{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return err
		}
		raws = append(raws, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(raws)
	if err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode records: %w", err)
	}
	return nil
}
