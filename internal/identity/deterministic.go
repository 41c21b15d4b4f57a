package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ArticleUUID derives the run-stable identity for an article uid.
func ArticleUUID(uid string) uuid.UUID {
	return UUID("docmigrate:article:" + strings.TrimSpace(uid))
}

// ShortSuffix returns the 8-character disambiguation suffix used when two
// articles resolve to the same output path.
func ShortSuffix(uid string) string {
	hex := strings.ReplaceAll(ArticleUUID(uid).String(), "-", "")
	if len(hex) < 8 {
		return hex
	}
	return hex[:8]
}
