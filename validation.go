package main

import (
	"fmt"
	"strings"
	"sync"

	"community-event-planner/internal/attendance"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// registerValidators adds the request tags used by this service to gin's
// validator.
func registerValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		rules := map[string]validator.Func{
			"rsvp_status": func(fl validator.FieldLevel) bool {
				return parseStatus(fl.Field().String()).Valid()
			},
			"viewer_role": func(fl validator.FieldLevel) bool {
				switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
				case string(attendance.RoleAdmin), string(attendance.RoleUser):
					return true
				}
				return false
			},
			"notblank": validators.NotBlank,
		}
		for tag, fn := range rules {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}

// parseStatus accepts "Going", "not going", "not-going" and the like.
func parseStatus(s string) attendance.Status {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	return attendance.Status(s)
}
