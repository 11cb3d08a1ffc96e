package participant

import (
	"github.com/viant/participant/internal/idgen"
	"github.com/viant/participant/service/attribute"
	"github.com/viant/participant/service/identity"
	"github.com/viant/participant/storage"
)

// MaxRetries bounds the candidates generated for one identifier request.
const MaxRetries = identity.MaxRetries

// Failure kinds, matched with errors.Is.
var (
	ErrUnavailable         = storage.ErrUnavailable
	ErrWrite               = storage.ErrWrite
	ErrGeneration          = identity.ErrGeneration
	ErrEntropy             = idgen.ErrEntropy
	ErrValidationExhausted = identity.ErrValidationExhausted
	ErrValidator           = identity.ErrValidator
	ErrSerialization       = attribute.ErrSerialization
)
