package xpander_test

import (
	"slices"
	"testing"

	"github.com/Defacto2/xpander"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	t.Parallel()
	const src = "/home/user/My Archives/demo.ace"
	tests := []struct {
		name string
		opts xpander.Options
		want []string
	}{
		{
			"Expand flat", xpander.Options{Command: xpander.Expand},
			[]string{"e", "-o-", "-y-", "-c-", src},
		},
		{
			"Expand full path", xpander.Options{Command: xpander.Expand, FullPath: true, Overwrite: true, AssumeYes: true},
			[]string{"x", "-o+", "-y+", "-c-", src},
		},
		{
			"List briefly", xpander.Options{Command: xpander.List, ShowComments: true},
			[]string{"l", "-o-", "-y-", "-c+", src},
		},
		{
			"List verbosely", xpander.Options{Command: xpander.List, Verbose: true, FullPath: true},
			[]string{"v", "-o-", "-y-", "-c-", src},
		},
		{
			"Test", xpander.Options{Command: xpander.Test, Verbose: true, FullPath: true, AssumeYes: true},
			[]string{"t", "-o-", "-y+", "-c-", src},
		},
		{
			"Password", xpander.Options{Command: xpander.Expand, UsePassword: true, Password: "s3cret word"},
			[]string{"e", "-o-", "-y-", "-c-", "-ps3cret word", src},
		},
		{
			"Password unused", xpander.Options{Command: xpander.Test, Password: "s3cret"},
			[]string{"t", "-o-", "-y-", "-c-", src},
		},
		{
			"Empty password", xpander.Options{Command: xpander.Test, UsePassword: true},
			[]string{"t", "-o-", "-y-", "-c-", "-p", src},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := xpander.Args(tt.opts, src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.False(t, slices.Contains(got, ""))
			assert.Equal(t, src, got[len(got)-1])
			again, err := xpander.Args(tt.opts, src)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestArgsErrors(t *testing.T) {
	t.Parallel()
	_, err := xpander.Args(xpander.Options{Command: xpander.Expand}, "")
	require.ErrorIs(t, err, xpander.ErrPath)
	_, err = xpander.Args(xpander.Options{Command: xpander.Command(9)}, "a.ace")
	require.ErrorIs(t, err, xpander.ErrCommand)
}

func TestCommand_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "expand", xpander.Expand.String())
	assert.Equal(t, "list", xpander.List.String())
	assert.Equal(t, "test", xpander.Test.String())
	assert.Equal(t, "unknown", xpander.Command(9).String())
}
