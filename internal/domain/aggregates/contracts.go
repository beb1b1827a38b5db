package aggregates

// WriteTxOwnership says who opens the transaction around an aggregate write.
type WriteTxOwnership string

// WriteTxOwnedByAggregate: the aggregate opens and commits its own transaction; callers
// never pass one in.
const WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"

// ReadPolicy limits what an aggregate may read.
type ReadPolicy string

// ReadPolicyInvariantScoped: only the rows needed to decide the write's invariants.
// Dashboards and listings read through the table repos instead.
const ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"

// Contract is the self-description every aggregate reports.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Notes            string
}

type Aggregate interface {
	Contract() Contract
}
