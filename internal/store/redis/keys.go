package redis

// KeyPrefixConsent namespaces consent records in a shared Redis.
const KeyPrefixConsent = "cookie_consent:"

// ConsentKey returns the Redis key for a consent record by ID
func ConsentKey(id string) string {
	return KeyPrefixConsent + id
}
