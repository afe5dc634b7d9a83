package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const maxReplyBytes = 1 << 20

type UpstashRedisConfig struct {
	URL       string        `envconfig:"URL" split_words:"true" required:"true"`
	Token     string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
	KeyPrefix string        `envconfig:"KEY_PREFIX" split_words:"true" default:"support:session:"`
	// TTL is a sliding expiry: every Load and Save pushes it forward. Zero keeps sessions forever.
	TTL time.Duration `envconfig:"TTL" split_words:"true" default:"24h"`
}

// UpstashRedisStore keeps one JSON document per session in Upstash Redis, spoken to over its REST API.
type UpstashRedisStore struct {
	endpoint string
	token    string
	prefix   string
	ttl      time.Duration
	client   *http.Client
}

var _ Store = (*UpstashRedisStore)(nil)

type UpstashOption func(*UpstashRedisStore)

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.client = client
		}
	}
}

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...UpstashOption) (*UpstashRedisStore, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("%w: upstash url is required", ErrBackend)
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("%w: invalid upstash url: %v", ErrBackend, err)
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, fmt.Errorf("%w: upstash token is required", ErrBackend)
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("%w: ttl must be >= 0, got %s", ErrBackend, cfg.TTL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = "support:session:"
	}

	s := &UpstashRedisStore{
		endpoint: endpoint,
		token:    token,
		prefix:   prefix,
		ttl:      cfg.TTL,
		client:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *UpstashRedisStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	key, err := s.key(sessionID)
	if err != nil {
		return nil, err
	}

	cmd := []any{"GET", key}
	if s.ttl > 0 {
		cmd = []any{"GETEX", key, "EX", expirySeconds(s.ttl)}
	}
	raw, err := s.do(ctx, cmd...)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrStateNotFound
	}

	// values come back as JSON strings holding the stored document
	var doc string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode session %s: %v", ErrBackend, sessionID, err)
	}
	var st SessionState
	if err := json.Unmarshal([]byte(doc), &st); err != nil {
		return nil, fmt.Errorf("%w: unmarshal session %s: %v", ErrBackend, sessionID, err)
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("stored session %s is invalid: %w", sessionID, err)
	}
	return &st, nil
}

func (s *UpstashRedisStore) Save(ctx context.Context, st *SessionState) error {
	if err := st.Validate(); err != nil {
		return err
	}
	key, err := s.key(st.SessionID)
	if err != nil {
		return err
	}

	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", st.SessionID, err)
	}

	cmd := []any{"SET", key, string(doc)}
	if s.ttl > 0 {
		cmd = append(cmd, "EX", expirySeconds(s.ttl))
	}
	if _, err := s.do(ctx, cmd...); err != nil {
		return err
	}

	log.Debug().Str("session_id", st.SessionID).Int("version", st.Version).Msg("session saved")
	return nil
}

func (s *UpstashRedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := s.key(sessionID)
	if err != nil {
		return err
	}
	_, err = s.do(ctx, "DEL", key)
	return err
}

func (s *UpstashRedisStore) key(sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrInvalidSession
	}
	prefix := s.prefix
	if prefix == "" {
		prefix = "support:session:"
	}
	return prefix + sessionID, nil
}

// do sends one command as a JSON array and returns the raw "result" field.
func (s *UpstashRedisStore) do(ctx context.Context, args ...any) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal command: %v", ErrBackend, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrBackend, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBackend, args[0], err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read reply: %v", ErrBackend, err)
	}

	var reply struct {
		Result json.RawMessage `json:"result"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil && resp.StatusCode < http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: decode reply: %v", ErrBackend, err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrBackend, args[0], reply.Error)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s: status=%d body=%s", ErrBackend, args[0], resp.StatusCode, raw)
	}
	return bytes.TrimSpace(reply.Result), nil
}

func expirySeconds(ttl time.Duration) int64 {
	secs := int64((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
