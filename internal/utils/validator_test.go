// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type validatorFixture struct {
	Name      string `validate:"required,min=2"`
	Phone     string `validate:"omitempty,phone"`
	BatchCode string `validate:"omitempty,batch_code"`
}

func TestValidateStructPhone(t *testing.T) {
	assert.NoError(t, ValidateStruct(&validatorFixture{Name: "ok", Phone: "+84 912 345 678"}))
	assert.NoError(t, ValidateStruct(&validatorFixture{Name: "ok", Phone: "0912345678"}))
	assert.NoError(t, ValidateStruct(&validatorFixture{Name: "ok"})) // optional

	assert.Error(t, ValidateStruct(&validatorFixture{Name: "ok", Phone: "not-a-phone"}))
	assert.Error(t, ValidateStruct(&validatorFixture{Name: "ok", Phone: "123"}))
}

func TestValidateStructBatchCode(t *testing.T) {
	assert.NoError(t, ValidateStruct(&validatorFixture{Name: "ok", BatchCode: "BATCH-A1B2C3D4E5F6"}))

	assert.Error(t, ValidateStruct(&validatorFixture{Name: "ok", BatchCode: "BATCH-short"}))
	assert.Error(t, ValidateStruct(&validatorFixture{Name: "ok", BatchCode: "batch-a1b2c3d4e5f6"}))
	assert.Error(t, ValidateStruct(&validatorFixture{Name: "ok", BatchCode: "A1B2C3D4E5F6"}))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&validatorFixture{Phone: "bad"})
	errs := GetValidationErrors(err)

	assert.Len(t, errs, 2)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "required", fields["name"])
	assert.Equal(t, "phone", fields["phone"])
}

func TestGetValidationErrorsNil(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
	assert.Empty(t, GetValidationErrors(ValidateStruct(&validatorFixture{Name: "ok"})))
}
