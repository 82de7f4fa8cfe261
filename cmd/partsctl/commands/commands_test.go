package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"partsadmin/internal/importer"
	"partsadmin/internal/middleware"
	"partsadmin/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTemplateCommand_StdoutCSV(t *testing.T) {
	templateXLSX, templateOut = false, ""
	out, err := run(t, "template")
	require.NoError(t, err)
	assert.Equal(t, importer.TemplateHeader+"\n", out)
}

func TestTemplateCommand_XLSXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.xlsx")
	_, err := run(t, "template", "--xlsx", "--out", path)
	require.NoError(t, err)
	t.Cleanup(func() { templateXLSX, templateOut = false, "" })

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, importer.TemplateColumns(), rows[0])
}

func TestTokenCommand(t *testing.T) {
	const secret = "partsctl-test-secret"
	t.Setenv("JWT_SECRET", secret)
	userID, orgID := uuid.New(), uuid.New()

	out, err := run(t, "token", "--user", userID.String(), "--org", orgID.String(), "--role", model.RoleOrgAdmin)
	require.NoError(t, err)

	claims := &middleware.JWTClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserUUID())
	assert.Equal(t, orgID, claims.OrganizationUUID())
	assert.Equal(t, model.RoleOrgAdmin, claims.Role)
}

func TestTokenCommand_Rejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "partsctl-test-secret")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad user", []string{"token", "--user", "x", "--org", uuid.NewString()}, "--user"},
		{"bad role", []string{"token", "--user", uuid.NewString(), "--org", uuid.NewString(), "--role", "root"}, "unknown role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenRole = model.RoleUser
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImportRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.csv")
	require.NoError(t, os.WriteFile(path, importer.TemplateCSV(), 0o644))
	orgID := uuid.New()

	importFile, importOrg, importApp = path, orgID.String(), model.NoApplication
	t.Cleanup(func() { importFile, importOrg, importApp = "", "", "" })

	req, err := importRequest()
	require.NoError(t, err)
	assert.Equal(t, orgID, req.OrganizationID)
	assert.Nil(t, req.ApplicationID)
	assert.Equal(t, "parts.csv", req.Filename)

	importApp = "not-a-uuid"
	_, err = importRequest()
	assert.ErrorContains(t, err, "--app")
}
