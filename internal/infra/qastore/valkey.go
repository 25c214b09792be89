package qastore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/askbook/internal/domain/qa"
)

// ValkeyStorage keeps pairs in one Valkey hash: field is the normalized
// question, value the JSON encoded pair.
type ValkeyStorage struct {
	client valkey.Client
	key    string
}

// NewValkeyStorage constructs a storage backed by Valkey.
func NewValkeyStorage(client valkey.Client, key string) *ValkeyStorage {
	if key == "" {
		key = "askbook:pairs"
	}
	return &ValkeyStorage{client: client, key: key}
}

// LoadAll implements qa.Storage. Pairs come back ordered by normalized question.
func (s *ValkeyStorage) LoadAll(ctx context.Context) ([]qa.Pair, error) {
	fields, err := s.client.Do(ctx, s.client.B().Hgetall().Key(s.key).Build()).AsStrMap()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []qa.Pair{}, nil
		}
		return nil, err
	}
	return decodeHash(fields)
}

// Persist implements qa.RowStorage.
func (s *ValkeyStorage) Persist(ctx context.Context, pair qa.Pair) error {
	payload, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	cmd := s.client.B().Hset().Key(s.key).FieldValue().FieldValue(qa.NormalizeKey(pair.Question), string(payload)).Build()
	return s.client.Do(ctx, cmd).Error()
}

// PersistAll implements qa.Storage inside MULTI/EXEC.
func (s *ValkeyStorage) PersistAll(ctx context.Context, pairs []qa.Pair) error {
	cmds := make([]valkey.Completed, 0, 4)
	cmds = append(cmds,
		s.client.B().Multi().Build(),
		s.client.B().Del().Key(s.key).Build(),
	)
	if len(pairs) > 0 {
		hset := s.client.B().Hset().Key(s.key).FieldValue()
		for _, p := range pairs {
			payload, err := json.Marshal(p)
			if err != nil {
				return err
			}
			hset = hset.FieldValue(qa.NormalizeKey(p.Question), string(payload))
		}
		cmds = append(cmds, hset.Build())
	}
	cmds = append(cmds, s.client.B().Exec().Build())

	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the client.
func (s *ValkeyStorage) Close() error {
	s.client.Close()
	return nil
}

func decodeHash(fields map[string]string) ([]qa.Pair, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]qa.Pair, 0, len(keys))
	for _, k := range keys {
		var p qa.Pair
		if err := json.Unmarshal([]byte(fields[k]), &p); err != nil {
			return nil, fmt.Errorf("decode pair %q: %w", k, err)
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

var _ qa.RowStorage = (*ValkeyStorage)(nil)
