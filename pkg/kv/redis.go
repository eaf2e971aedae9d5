package kv

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a single Redis instance. Each item is a
// hash; each partition keeps a sorted set of its sort keys so prefix queries
// come back in sort-key order. Commit runs as a server-side script that
// checks every precondition before the first write, which is what makes the
// multi-item commit atomic from the point of view of concurrent callers.
type RedisStore struct {
	rdb    *goredis.Client
	table  string
	commit *goredis.Script
}

// commitScript evaluates all preconditions, then applies all writes. KEYS
// holds the item key and partition key of each op in order; ARGV[1] is the
// JSON-encoded op list. Returns 0 on success or the 1-based index of the op
// whose precondition failed.
const commitScript = `
local ops = cjson.decode(ARGV[1])

for i, op in ipairs(ops) do
  local ikey = KEYS[2*i-1]
  if op.cond then
    if op.cond.absent then
      if redis.call('EXISTS', ikey) == 1 then
        return i
      end
    elseif op.cond.ne then
      local v = redis.call('HGET', ikey, op.cond.ne.name)
      if v == op.cond.ne.value then
        return i
      end
    end
  end
end

for i, op in ipairs(ops) do
  local ikey = KEYS[2*i-1]
  local pkey = KEYS[2*i]
  if op.kind == 'delete' then
    redis.call('DEL', ikey)
    redis.call('ZREM', pkey, op.sk)
  else
    if op.kind == 'put' then
      redis.call('DEL', ikey)
    end
    for name, value in pairs(op.attrs) do
      redis.call('HSET', ikey, name, value)
    end
    redis.call('ZADD', pkey, 0, op.sk)
  end
end

return 0
`

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg Config) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("kv: redis addr is empty")
	}

	opts := &goredis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout(),
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}

	rdb := goredis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("kv: redis ping failed: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = DefaultConfig().Table
	}

	return &RedisStore{
		rdb:    rdb,
		table:  table,
		commit: goredis.NewScript(commitScript),
	}, nil
}

// Client exposes the underlying connection for infrastructure that shares it
// (rate limiter storage, health checks).
func (s *RedisStore) Client() *goredis.Client { return s.rdb }

func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) itemKey(pk, sk string) string {
	return s.table + ":item:" + pk + "|" + sk
}

func (s *RedisStore) partKey(pk string) string {
	return s.table + ":part:" + pk
}

func (s *RedisStore) Get(ctx context.Context, pk, sk string) (Item, error) {
	m, err := s.rdb.HGetAll(ctx, s.itemKey(pk, sk)).Result()
	if err != nil {
		return nil, fmt.Errorf("kv: get %s/%s: %w", pk, sk, err)
	}
	if len(m) == 0 {
		return nil, ErrItemNotFound
	}
	return Item(m), nil
}

func (s *RedisStore) Query(ctx context.Context, pk, skPrefix string) ([]Item, error) {
	rng := &goredis.ZRangeBy{Min: "-", Max: "+"}
	if skPrefix != "" {
		rng = &goredis.ZRangeBy{
			Min: "[" + skPrefix,
			Max: "[" + skPrefix + "\xff",
		}
	}

	sks, err := s.rdb.ZRangeByLex(ctx, s.partKey(pk), rng).Result()
	if err != nil {
		return nil, fmt.Errorf("kv: query %s: %w", pk, err)
	}
	if len(sks) == 0 {
		return nil, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, len(sks))
	for i, sk := range sks {
		cmds[i] = pipe.HGetAll(ctx, s.itemKey(pk, sk))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("kv: query %s: %w", pk, err)
	}

	items := make([]Item, 0, len(sks))
	for _, cmd := range cmds {
		m := cmd.Val()
		if len(m) == 0 {
			// Index entry without a hash; skip rather than fail the read.
			continue
		}
		items = append(items, Item(m))
	}
	return items, nil
}

func (s *RedisStore) PutIfAbsent(ctx context.Context, pk, sk string, attrs Item) error {
	err := s.Commit(ctx, []Op{{
		Kind:  OpPut,
		PK:    pk,
		SK:    sk,
		Attrs: attrs,
		Cond:  &Cond{Absent: true},
	}})
	return flattenSingle(err)
}

func (s *RedisStore) UpdateIf(ctx context.Context, pk, sk string, attrs Item, cond Cond) error {
	err := s.Commit(ctx, []Op{{
		Kind:  OpUpdate,
		PK:    pk,
		SK:    sk,
		Attrs: attrs,
		Cond:  &cond,
	}})
	return flattenSingle(err)
}

func (s *RedisStore) Delete(ctx context.Context, pk, sk string) error {
	return s.Commit(ctx, []Op{{Kind: OpDelete, PK: pk, SK: sk}})
}

type wireCond struct {
	Absent bool          `json:"absent,omitempty"`
	NE     *wireNotEqual `json:"ne,omitempty"`
}

type wireNotEqual struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type wireOp struct {
	Kind  string            `json:"kind"`
	SK    string            `json:"sk"`
	Attrs map[string]string `json:"attrs,omitempty"`
	Cond  *wireCond         `json:"cond,omitempty"`
}

func (s *RedisStore) Commit(ctx context.Context, ops []Op) error {
	if len(ops) == 0 {
		return nil
	}

	keys := make([]string, 0, 2*len(ops))
	wire := make([]wireOp, len(ops))
	for i, op := range ops {
		keys = append(keys, s.itemKey(op.PK, op.SK), s.partKey(op.PK))

		w := wireOp{SK: op.SK}
		switch op.Kind {
		case OpPut:
			w.Kind = "put"
		case OpUpdate:
			w.Kind = "update"
		case OpDelete:
			w.Kind = "delete"
		default:
			return fmt.Errorf("kv: unknown op kind %d", op.Kind)
		}

		if op.Kind != OpDelete {
			attrs := make(map[string]string, len(op.Attrs)+2)
			for k, v := range op.Attrs {
				attrs[k] = v
			}
			attrs[AttrPK] = op.PK
			attrs[AttrSK] = op.SK
			w.Attrs = attrs
		}

		if op.Cond != nil {
			wc := &wireCond{Absent: op.Cond.Absent}
			if op.Cond.NotEquals != nil {
				wc.NE = &wireNotEqual{
					Name:  op.Cond.NotEquals.Name,
					Value: op.Cond.NotEquals.Value,
				}
			}
			w.Cond = wc
		}

		wire[i] = w
	}

	payload, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("kv: encode commit: %w", err)
	}

	res, err := s.commit.Run(ctx, s.rdb, keys, string(payload)).Int64()
	if err != nil {
		return fmt.Errorf("kv: commit: %w", err)
	}
	if res != 0 {
		return &CommitError{OpIndex: int(res) - 1}
	}
	return nil
}

// flattenSingle maps a single-op commit abort to the plain sentinel so
// callers of the one-shot helpers don't have to unwrap CommitError.
func flattenSingle(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*CommitError); ok {
		return ErrConditionFailed
	}
	return err
}
