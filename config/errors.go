package config

import (
	"errors"
	"fmt"

	"github.com/crosti/buyerform/model"
)

var (
	// ErrConfigUnmarshal is returned when the config file is not valid YAML
	ErrConfigUnmarshal = errors.New("failed to unmarshal configuration")
	// ErrMissingCredentials is returned when the mail identity or destination is unset
	ErrMissingCredentials = fmt.Errorf("%w: mail credentials not set", model.ErrConfiguration)
	// ErrMinioNotConfigured is returned when the minio scratch backend lacks an endpoint or bucket
	ErrMinioNotConfigured = fmt.Errorf("%w: minio scratch backend needs endpoint and bucket", model.ErrConfiguration)
	// ErrUnknownScratchBackend is returned for scratch backends other than local and minio
	ErrUnknownScratchBackend = fmt.Errorf("%w: unknown scratch backend", model.ErrConfiguration)
)
