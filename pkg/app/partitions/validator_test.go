package partitions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-gptinfo/pkg/app"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr bool
		errCode string
	}{
		{
			name:    "valid basic request",
			request: Request{ImagePath: "disk.raw", Partitions: []int{1, 13, 15}},
		},
		{
			name:    "valid 4K sector request",
			request: Request{ImagePath: "disk.raw", SectorSize: 4096, All: true, Workers: 4},
		},
		{
			name:    "missing image path",
			request: Request{Partitions: []int{1}},
			wantErr: true,
			errCode: app.ErrCodeUsage,
		},
		{
			name:    "sector size too small",
			request: Request{ImagePath: "disk.raw", SectorSize: 64},
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "sector size not a power of two",
			request: Request{ImagePath: "disk.raw", SectorSize: 1000},
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "negative workers",
			request: Request{ImagePath: "disk.raw", Workers: -2},
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "zero partition number",
			request: Request{ImagePath: "disk.raw", Partitions: []int{0, 1}},
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "empty partition list",
			request: Request{ImagePath: "disk.raw", Partitions: []int{}},
			wantErr: true,
			errCode: app.ErrCodeInvalidInput,
		},
		{
			name:    "partition numbers ignored with all",
			request: Request{ImagePath: "disk.raw", Partitions: []int{0}, All: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var appErr *app.CommonError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.errCode, appErr.Code)
		})
	}
}

func TestHeaderRequest_Validate(t *testing.T) {
	assert.NoError(t, (&HeaderRequest{ImagePath: "disk.raw"}).Validate())

	err := (&HeaderRequest{}).Validate()
	assert.Equal(t, app.ErrCodeUsage, app.ErrorCode(err))

	err = (&HeaderRequest{ImagePath: "disk.raw", SectorSize: 3}).Validate()
	assert.Equal(t, app.ErrCodeInvalidInput, app.ErrorCode(err))
}
