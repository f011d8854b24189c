// Package redis constructs a go-redis client from a redis:// or rediss:// URL.
package redis

import (
	"context"
	"crypto/tls"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := parseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

func parseURL(redisURL string) (*redis.Options, error) {
	u, err := url.Parse(redisURL)
	if err != nil {
		return nil, err
	}

	opts := &redis.Options{Addr: u.Host}

	if u.User != nil {
		opts.Username = u.User.Username()
		if password, ok := u.User.Password(); ok {
			opts.Password = password
		}
	}

	if len(u.Path) > 1 {
		if db, err := strconv.Atoi(u.Path[1:]); err == nil {
			opts.DB = db
		}
	}

	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{ServerName: u.Hostname()}
	}

	return opts, nil
}
