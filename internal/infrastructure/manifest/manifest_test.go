package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "WebHost_RewrittenToRawHost",
			in:   "https://github.com/acme/plugins",
			want: "https://raw.githubusercontent.com/acme/plugins/master/plugins.xml",
		},
		{
			name: "WebHostWithWWW_RewrittenToRawHost",
			in:   "https://www.github.com/acme/plugins/",
			want: "https://raw.githubusercontent.com/acme/plugins/master/plugins.xml",
		},
		{
			name: "OtherHost_Untouched",
			in:   "https://plugins.example.com/repo",
			want: "https://plugins.example.com/repo/master/plugins.xml",
		},
		{
			name: "TrailingSlash_NoDoubleSeparator",
			in:   "https://plugins.example.com/repo/",
			want: "https://plugins.example.com/repo/master/plugins.xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

// TestNormalize_PropertyBased_SeparatorRule verifies that for any source URL,
// the normalized URL is the source joined with the document path by exactly
// one "/" regardless of whether the source already ends in one.
func TestNormalize_PropertyBased_SeparatorRule(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := "https://plugins.example.com/" +
			rapid.StringMatching(`[a-z]{1,10}(/[a-z]{1,10}){0,3}`).Draw(t, "path")
		withSlash := rapid.Bool().Draw(t, "withSlash")

		in := base
		if withSlash {
			in += "/"
		}

		got := Normalize(in)
		assert.Equal(t, base+"/"+DocumentPath, got)
		assert.True(t, strings.HasSuffix(got, "/master/plugins.xml"))
	})
}

func TestParse_SingleEntry(t *testing.T) {
	data := `<Plugins><Plugin Name="Foo" Version="2.0" DownloadUrl="http://x/f"><DownloadFile Name="foo.dll"/></Plugin></Plugins>`

	entries, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{
		Name:        "Foo",
		Version:     "2.0",
		DownloadURL: "http://x/f",
		Files:       []string{"foo.dll"},
	}, entries[0])
}

func TestParse_MultipleEntries_KeepManifestOrder(t *testing.T) {
	data := `<Plugins>
		<Plugin Name="Bravo" Version="1.1" DownloadUrl="http://x/b">
			<DownloadFile Name="bravo.dll"/>
			<DownloadFile Name="bravo.pdb"/>
		</Plugin>
		<Plugin Name="Alpha" Version="0.9" DownloadUrl="http://x/a">
			<DownloadFile Name="alpha.dll"/>
		</Plugin>
	</Plugins>`

	entries, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bravo", entries[0].Name)
	assert.Equal(t, []string{"bravo.dll", "bravo.pdb"}, entries[0].Files)
	assert.Equal(t, "Alpha", entries[1].Name)
}

func TestParse_EmptyManifest(t *testing.T) {
	entries, err := Parse([]byte(`<Plugins></Plugins>`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParse_MalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<Plugins><Plugin Name="Foo"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed manifest XML")
}

func TestParse_WrongRootElement(t *testing.T) {
	_, err := Parse([]byte(`<Catalog></Catalog>`))
	require.Error(t, err)
}

func TestParse_MissingRequiredAttribute(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "MissingName",
			data: `<Plugins><Plugin Version="2.0" DownloadUrl="http://x/f"/></Plugins>`,
		},
		{
			name: "MissingVersion",
			data: `<Plugins><Plugin Name="Foo" DownloadUrl="http://x/f"/></Plugins>`,
		},
		{
			name: "MissingDownloadUrl",
			data: `<Plugins><Plugin Name="Foo" Version="2.0"/></Plugins>`,
		},
		{
			name: "MissingDownloadFileName",
			data: `<Plugins><Plugin Name="Foo" Version="2.0" DownloadUrl="http://x/f"><DownloadFile/></Plugin></Plugins>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err, "missing attribute should fail the whole manifest")
		})
	}
}
