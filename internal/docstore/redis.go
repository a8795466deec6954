package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jewelry-ledger/internal/core"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis stores each document as a hash {owner, body} under <prefix>:doc:<id>,
// with <prefix>:name:<owner>:<name> pointing at the id.
type Redis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "jewelry"
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

// NewRedisClient dials addr and pings it before returning.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("docstore: redis ping: %w", err)
	}
	return client, nil
}

func (r *Redis) nameKey(owner, name string) string {
	return fmt.Sprintf("%s:name:%s:%s", r.prefix, owner, name)
}

func (r *Redis) docKey(id string) string {
	return fmt.Sprintf("%s:doc:%s", r.prefix, id)
}

func (r *Redis) Find(ctx context.Context, cred core.Credential, name string) (core.Handle, bool, error) {
	if err := authorize(cred, r.now()); err != nil {
		return core.Handle{}, false, err
	}
	id, err := r.client.Get(ctx, r.nameKey(cred.Subject, name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.Handle{}, false, nil
		}
		return core.Handle{}, false, fmt.Errorf("failed to find document %s: %w", name, err)
	}
	return core.Handle{ID: id}, true, nil
}

func (r *Redis) Create(ctx context.Context, cred core.Credential, name string, doc core.Document) (core.Handle, error) {
	if err := authorize(cred, r.now()); err != nil {
		return core.Handle{}, err
	}
	body, err := core.EncodeDocument(doc)
	if err != nil {
		return core.Handle{}, err
	}

	id := uuid.NewString()
	claimed, err := r.client.SetNX(ctx, r.nameKey(cred.Subject, name), id, 0).Result()
	if err != nil {
		return core.Handle{}, fmt.Errorf("failed to create document %s: %w", name, err)
	}
	if !claimed {
		existing, err := r.client.Get(ctx, r.nameKey(cred.Subject, name)).Result()
		if err != nil {
			return core.Handle{}, fmt.Errorf("failed to resolve document %s: %w", name, err)
		}
		return core.Handle{ID: existing}, nil
	}

	if err := r.client.HSet(ctx, r.docKey(id), "owner", cred.Subject, "body", body).Err(); err != nil {
		return core.Handle{}, fmt.Errorf("failed to store document %s: %w", name, err)
	}
	return core.Handle{ID: id}, nil
}

func (r *Redis) Read(ctx context.Context, cred core.Credential, h core.Handle) (core.Document, error) {
	if err := authorize(cred, r.now()); err != nil {
		return core.Document{}, err
	}
	vals, err := r.client.HMGet(ctx, r.docKey(h.ID), "owner", "body").Result()
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to read document %s: %w", h.ID, err)
	}
	owner, _ := vals[0].(string)
	body, _ := vals[1].(string)
	if owner == "" || owner != cred.Subject {
		return core.Document{}, handleNotFound(h)
	}
	return core.DecodeDocument([]byte(body))
}

func (r *Redis) Write(ctx context.Context, cred core.Credential, h core.Handle, doc core.Document) error {
	if err := authorize(cred, r.now()); err != nil {
		return err
	}
	body, err := core.EncodeDocument(doc)
	if err != nil {
		return err
	}

	key := r.docKey(h.ID)
	owner, err := r.client.HGet(ctx, key, "owner").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return handleNotFound(h)
		}
		return fmt.Errorf("failed to write document %s: %w", h.ID, err)
	}
	if owner != cred.Subject {
		return handleNotFound(h)
	}
	if err := r.client.HSet(ctx, key, "body", body).Err(); err != nil {
		return fmt.Errorf("failed to write document %s: %w", h.ID, err)
	}
	return nil
}
