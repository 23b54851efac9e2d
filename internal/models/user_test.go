package models_test

import (
	"civicconnect/backend/internal/models"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComplaintStructTags guards the persisted field names shared by both ledgers.
func TestComplaintStructTags(t *testing.T) {
	complaintType := reflect.TypeOf(models.Complaint{})

	expected := map[string]string{
		"ID":          "id",
		"Name":        "name",
		"Address":     "address",
		"Phone":       "phone",
		"Category":    "category",
		"Description": "description",
		"Image":       "image",
		"Date":        "date",
		"Status":      "status",
	}
	for field, tag := range expected {
		f, found := complaintType.FieldByName(field)
		assert.True(t, found, "%s field should exist", field)
		assert.Equal(t, tag, f.Tag.Get("json"), "%s should have json tag %q", field, tag)
	}
	assert.Equal(t, len(expected), complaintType.NumField(), "no unexpected persisted fields")
}

// TestComplaintImageEncodesNull verifies a missing image is written as null, not omitted.
func TestComplaintImageEncodesNull(t *testing.T) {
	data, err := json.Marshal(models.Complaint{ID: "1", Status: models.StatusPending})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"image":null`)
}

func TestUserSession_OmitsEmptyEmail(t *testing.T) {
	data, err := json.Marshal(models.UserSession{Username: "asha"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"asha"}`, string(data))

	data, err = json.Marshal(models.UserSession{Username: "asha", Email: "asha@example.org"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"asha","email":"asha@example.org"}`, string(data))
}

func TestAdminSession_Shape(t *testing.T) {
	data, err := json.Marshal(models.AdminSession{Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"admin","role":"admin"}`, string(data))
}
