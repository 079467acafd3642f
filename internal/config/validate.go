// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package config

import (
	"fmt"

	"github.com/tomtom215/movierec/internal/validation"
)

// Validate checks struct-tag constraints first, then rules that span fields.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("recommend.default_k (%d) must not exceed recommend.max_k (%d)",
			c.Recommend.DefaultK, c.Recommend.MaxK)
	}
	if c.Evaluate.K > c.Recommend.MaxK {
		return fmt.Errorf("evaluate.k (%d) must not exceed recommend.max_k (%d)",
			c.Evaluate.K, c.Recommend.MaxK)
	}
	if c.Data.AutoDownload && c.Data.URL == "" {
		return fmt.Errorf("data.url is required when data.auto_download is true")
	}
	return nil
}
