// Package orderdex resolves company identities across order feeds and
// consolidates their sales-owner lists.
//
// The Resolver is the embeddable engine: feed it per-order observations and
// it returns one consolidated row per company identity, merging ids whose
// normalized names are similar enough.
//
//	r, err := orderdex.NewResolver(orderdex.WithThreshold(0.8))
//	if err != nil {
//		log.Fatal(err)
//	}
//	companies := r.Resolve(observations)
//
// The Client reads run snapshots a pipeline has stored, from any of the
// supported backends:
//
//	c, err := orderdex.New(ctx, orderdex.WithSQLite("orderdex.db"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer c.Close()
//	snap, err := c.Runs().Latest(ctx)
package orderdex
