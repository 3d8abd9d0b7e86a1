package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "NewHouseEvent/1.0.0", generateKeyFromPath("events/new-house/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("events/malformed.json"))
}

func TestValidate_NewHouseEvent(t *testing.T) {
	payload := []byte(`{
		"id": 101,
		"position": "Минская обл., Минский р-н, д. Дубовцы",
		"state_type": "Пустующий",
		"state_date": "2024-03-15",
		"inspection_date": null,
		"link": "https://eri2.nca.by/guest/abandonedObject/101",
		"latitude": 53.9006,
		"longitude": 27.5590,
		"geohash": "u9edu8v",
		"run_id": "8f4f6c2e-0a8a-4a7e-9a66-0a1b2c3d4e5f"
	}`)

	assert.NoError(t, Validate("NewHouseEvent/1.0.0", payload))
}

func TestValidate_MissingRequiredField(t *testing.T) {
	payload := []byte(`{
		"id": 101,
		"position": "Минская обл.",
		"link": "https://eri2.nca.by/guest/abandonedObject/101"
	}`)

	err := Validate("NewHouseEvent/1.0.0", payload)
	assert.ErrorContains(t, err, "does not match schema")
}

func TestValidate_UnexpectedField(t *testing.T) {
	payload := []byte(`{
		"id": 101,
		"position": "Минская обл.",
		"link": "https://eri2.nca.by/guest/abandonedObject/101",
		"run_id": "8f4f6c2e-0a8a-4a7e-9a66-0a1b2c3d4e5f",
		"surprise": true
	}`)

	err := Validate("NewHouseEvent/1.0.0", payload)
	assert.Error(t, err)
}

func TestValidate_UnknownKey(t *testing.T) {
	err := Validate("NoSuchEvent/1.0.0", []byte(`{}`))
	assert.ErrorContains(t, err, "no schema registered")
}

func TestValidate_InvalidJSON(t *testing.T) {
	err := Validate("NewHouseEvent/1.0.0", []byte(`не json`))
	assert.ErrorContains(t, err, "not valid JSON")
}
