package identity

import (
	"strconv"
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

// UserUUID derives the id for a seeded user account from its username.
func UserUUID(username string) uuid.UUID {
	return UUID("school-cms:user:" + strings.ToLower(strings.TrimSpace(username)))
}

// PageUUID derives the id for a seeded page from its slug.
func PageUUID(slug string) uuid.UUID {
	return UUID("school-cms:page:" + strings.ToLower(strings.TrimSpace(slug)))
}

// BlockID derives a stable block identifier for imported content. Interactive
// editor sessions mint random ids instead; deterministic ids are only needed
// when the same source document is imported repeatedly.
func BlockID(pageSlug string, position int) string {
	return UUID("school-cms:block:" + strings.ToLower(strings.TrimSpace(pageSlug)) + ":" + strconv.Itoa(position)).String()
}
