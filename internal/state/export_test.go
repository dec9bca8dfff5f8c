package state

import (
	"fmt"

	"github.com/imamik/deployfleet/internal/platform/s3"
)

var errNoSuchKey = fmt.Errorf("object missing: %w", s3.ErrObjectNotFound)
