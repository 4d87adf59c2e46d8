package httpapi

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"bookit/internal/audit"
	"bookit/internal/booking"
	"bookit/internal/catalog"
	"bookit/internal/identity"
	"bookit/internal/partner"
	"bookit/internal/seed"
)

// Stores is the persistence the API runs on; every field is required.
type Stores struct {
	Identities identity.Store
	Catalog    catalog.Store
	Bookings   booking.Store
	Audit      audit.Store
	Partners   partner.Store
}

// MemoryStores shares one audit journal between the booking store, which
// writes it, and Audit, which serves booking history.
func MemoryStores() Stores {
	journal := audit.NewMemoryStore()
	return Stores{
		Identities: identity.NewMemoryStore(),
		Catalog:    catalog.NewMemoryStore(),
		Bookings:   booking.NewMemoryStore(journal),
		Audit:      journal,
		Partners:   partner.NewMemoryStore(),
	}
}

func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Identities: identity.NewRepository(pool),
		Catalog:    catalog.NewRepository(pool),
		Bookings:   booking.NewRepository(pool),
		Audit:      audit.NewRepository(pool),
		Partners:   partner.NewRepository(pool),
	}
}

func (s Stores) Seed() seed.Stores {
	return seed.Stores{
		Identities: s.Identities,
		Catalog:    s.Catalog,
		Bookings:   s.Bookings,
	}
}
