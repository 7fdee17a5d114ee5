/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreeman451/netstate/pkg/models"
)

func TestArtifactWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir)

	at := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	from := &Snapshot{Device: rtr1, Version: 1, RawText: "hostname a\n", ContentHash: ContentHash("hostname a\n"), CapturedAt: at}
	to := &Snapshot{Device: rtr1, Version: 2, RawText: "hostname b\n", ContentHash: ContentHash("hostname b\n"), CapturedAt: at.Add(time.Hour)}

	path, err := w.WriteSnapshot(to)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cisco_ios", "10.0.0.1", "v000002.cfg"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hostname b\n", string(body))

	d, err := Compare(from, to)
	require.NoError(t, err)

	path, err = w.WriteDiff(d)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cisco_ios", "10.0.0.1", "v000001-v000002.diff"), path)

	body, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "-hostname a")
	assert.Contains(t, string(body), "+hostname b")

	unchanged, err := Compare(from, from)
	require.NoError(t, err)

	path, err = w.WriteDiff(unchanged)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestArtifactWriterSanitizesAddress(t *testing.T) {
	dir := t.TempDir()

	id := models.DeviceIdentity{Address: "2001:db8::1", Profile: models.ProfileAristaEOS}

	path, err := NewArtifactWriter(dir).WriteSnapshot(&Snapshot{Device: id, Version: 1, RawText: "x"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "arista_eos", "2001_db8__1", "v000001.cfg"), path)
}

func TestContentHashIsByteExact(t *testing.T) {
	assert.Equal(t, ContentHash("a\n"), ContentHash("a\n"))
	assert.NotEqual(t, ContentHash("a\n"), ContentHash("a \n"))
	assert.NotEqual(t, ContentHash("a\n"), ContentHash("a\r\n"))
	assert.Len(t, ContentHash(""), 64)
}
