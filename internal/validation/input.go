package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Identifier patterns for storefront resources
var (
	idPattern       = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_\-]*$`)
	cacheKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]+:[^\s]+$`)
)

// ValidateProductID validates a product identifier
func ValidateProductID(id string) error {
	if id == "" {
		return fmt.Errorf("product id cannot be empty")
	}

	if len(id) > 64 {
		return fmt.Errorf("product id length cannot exceed 64 characters, got %d", len(id))
	}

	if !idPattern.MatchString(id) {
		return fmt.Errorf("product id must start with a letter or digit and contain only letters, digits, hyphens, and underscores")
	}

	return nil
}

// ValidateUserID validates a user identifier
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	if len(id) > 64 {
		return fmt.Errorf("user id length cannot exceed 64 characters, got %d", len(id))
	}

	if !idPattern.MatchString(id) {
		return fmt.Errorf("user id must start with a letter or digit and contain only letters, digits, hyphens, and underscores")
	}

	return nil
}

// ValidateCacheKey validates a fully namespaced cache key (prefix:logicalKey)
func ValidateCacheKey(key string) error {
	if key == "" {
		return fmt.Errorf("cache key cannot be empty")
	}

	if !strings.Contains(key, ":") {
		return fmt.Errorf("cache key must be namespaced as prefix:key, got %s", key)
	}

	if !cacheKeyPattern.MatchString(key) {
		return fmt.Errorf("cache key must not contain whitespace and the prefix must be alphanumeric")
	}

	return nil
}
