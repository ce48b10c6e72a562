package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Key namespaces
const (
	NamespaceProviderAppointments = "provider-appointments"
	NamespaceProvidersList        = "providers-list"
)

// Key is a structured cache key. Entries are addressed by namespace plus
// ordered parts, so writers and invalidators always render the identical
// string for the same tuple.
type Key struct {
	namespace string
	parts     []string
}

func NewKey(namespace string, parts ...string) Key {
	return Key{namespace: namespace, parts: parts}
}

// ProviderAppointmentsKey addresses a provider's appointments for one
// calendar day. Month and day are rendered without zero padding; the
// booking invalidation path depends on this exact format.
func ProviderAppointmentsKey(providerID uuid.UUID, year, month, day int) Key {
	date := strconv.Itoa(year) + "-" + strconv.Itoa(month) + "-" + strconv.Itoa(day)
	return NewKey(NamespaceProviderAppointments, providerID.String(), date)
}

// ProvidersListKey addresses the provider listing excluding one user
func ProvidersListKey(exceptUserID uuid.UUID) Key {
	return NewKey(NamespaceProvidersList, exceptUserID.String())
}

func (k Key) Namespace() string {
	return k.namespace
}

func (k Key) String() string {
	if len(k.parts) == 0 {
		return k.namespace
	}
	return k.namespace + ":" + strings.Join(k.parts, ":")
}

// Provider is a read-through key-value cache. Recover reports a miss with
// found=false and no error; Save serializes value as JSON.
type Provider interface {
	Recover(ctx context.Context, key Key, value interface{}) (found bool, err error)
	Save(ctx context.Context, key Key, value interface{}) error
	Invalidate(ctx context.Context, key Key) error
	InvalidatePrefix(ctx context.Context, namespace string) error
}
