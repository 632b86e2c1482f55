package auth

import (
	"errors"
	"strings"

	"github.com/realakshayk/good-eats/internal"
)

// Keyring is a static API key -> plan lookup, loaded once at startup.
type Keyring struct {
	plans  map[string]string
	logger internal.Logger
}

// NewKeyring parses a comma-separated list of key:plan pairs.
func NewKeyring(spec string, logger internal.Logger) (*Keyring, error) {
	plans := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, plan, ok := strings.Cut(pair, ":")
		if !ok || key == "" || plan == "" {
			return nil, errors.New("auth: API_KEYS entries must look like key:plan")
		}
		plans[key] = plan
	}
	if len(plans) == 0 {
		return nil, errors.New("auth: no API keys configured")
	}
	return &Keyring{plans: plans, logger: logger}, nil
}

// Plan returns the plan name for an API key.
func (k *Keyring) Plan(apiKey string) (string, bool) {
	plan, ok := k.plans[apiKey]
	if !ok {
		k.logger.Warnf("auth: unknown API key")
	}
	return plan, ok
}
