package graybat

import "github.com/graybat-go/graybat/policy"

// Context and VAddr are re-exported from policy so callers working
// through the Cage facade never need to import the substrate package
// directly; every CommunicationPolicy hands back these same concrete
// types (see policy.Context for the full doc).
type (
	Context = policy.Context
	VAddr   = policy.VAddr
)

// NewContext and InvalidContext are re-exported for symmetry with the
// Context/VAddr aliases above.
var (
	NewContext     = policy.NewContext
	InvalidContext = policy.InvalidContext
)
