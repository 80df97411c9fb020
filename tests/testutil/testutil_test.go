package testutil

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	mockDB.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	var count int64
	err := mockDB.DB.Table("items").Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	mockDB.ExpectationsWereMet(t)
}

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Recorder)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestSetAuthenticated(t *testing.T) {
	tc := NewTestContext(t)

	userID := TestUserID()
	tenantID := TestTenantID()
	tc.SetAuthenticated(userID, tenantID, "owner")

	gotUser, exists := tc.Context.Get("jwt_user_id")
	require.True(t, exists)
	assert.Equal(t, userID, gotUser)

	gotTenant, exists := tc.Context.Get("jwt_tenant_id")
	require.True(t, exists)
	assert.Equal(t, tenantID, gotTenant)

	gotRole, exists := tc.Context.Get("jwt_role")
	require.True(t, exists)
	assert.Equal(t, "owner", gotRole)
}

func TestSetRequestID(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetRequestID("req-123")

	val, exists := tc.Context.Get("request_id")
	require.True(t, exists)
	assert.Equal(t, "req-123", val)
}

func TestSetHeader(t *testing.T) {
	tc := NewTestContext(t)

	tc.SetHeader("X-Idempotency-Key", "chk-42")

	assert.Equal(t, "chk-42", tc.Context.Request.Header.Get("X-Idempotency-Key"))
}

func TestNewTestUUIDIsDeterministic(t *testing.T) {
	a := NewTestUUID("provider-jamie")
	b := NewTestUUID("provider-jamie")
	c := NewTestUUID("provider-alex")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFixtureIDsAreDistinct(t *testing.T) {
	assert.NotEqual(t, TestTenantID(), TestUserID())
}
