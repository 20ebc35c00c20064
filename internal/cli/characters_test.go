package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rivo/uniseg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dechi99991/cooking-sim/internal/testutil"
	"github.com/dechi99991/cooking-sim/internal/wire"
)

var testCharacters = []wire.Character{
	{ID: "salaryman", Name: "会社員", InitialMoney: 50000, InitialEnergy: 10, InitialStamina: 80, SalaryAmount: 200000, RentAmount: 70000},
	{ID: "student", Name: "学生", InitialMoney: 20000, InitialEnergy: 12, InitialStamina: 90, SalaryAmount: 60000, RentAmount: 40000},
}

func TestCharactersText(t *testing.T) {
	remote := testutil.StartRemote(t)
	remote.JSON("GET", "/api/characters", testCharacters)

	res := execute(t, "", "characters", "--api-url", remote.URL())
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimRight(res.stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "salaryman")
	assert.Contains(t, lines[1], "会社員")
	assert.Contains(t, lines[2], "20000")
	// Full-width names occupy two cells each, so the MONEY column lines up.
	assert.Equal(t,
		uniseg.StringWidth(lines[0][:strings.Index(lines[0], "MONEY")]),
		uniseg.StringWidth(lines[1][:strings.Index(lines[1], "50000")]))
}

func TestCharactersJSON(t *testing.T) {
	remote := testutil.StartRemote(t)
	remote.JSON("GET", "/api/characters", testCharacters)

	res := execute(t, "", "characters", "--api-url", remote.URL(), "--format", "json")
	require.NoError(t, res.err)

	var resp struct {
		Status string           `json:"status"`
		Data   []wire.Character `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testCharacters, resp.Data)
}

func TestCharactersRemoteError(t *testing.T) {
	remote := testutil.StartRemote(t)
	remote.Fail("GET", "/api/characters", 500, "database offline")

	res := execute(t, "", "characters", "--api-url", remote.URL())
	require.Error(t, res.err)
	assert.Equal(t, ExitFailure, GetExitCode(res.err))
	assert.Contains(t, res.stdout, "Error [E_REMOTE]")
	assert.Contains(t, res.stdout, "database offline")
}

func TestCharactersInvalidURL(t *testing.T) {
	res := execute(t, "", "characters", "--api-url", "://nope")
	require.Error(t, res.err)
	assert.Equal(t, ExitCommandError, GetExitCode(res.err))
}

func TestWriteCharactersEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeCharacters(&buf, nil)
	assert.Equal(t, "No characters available.\n", buf.String())
}

func TestTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	tbl := &table{indent: "  "}
	tbl.add("卵", "x2")
	tbl.add("eggs", "x10")
	tbl.write(&buf)

	assert.Equal(t, "  卵    x2\n  eggs  x10\n", buf.String())
}
