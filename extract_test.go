package unarchive

import "testing"

func TestEntryFileName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOk bool
	}{
		{"file.txt", "file.txt", true},
		{"dir/file.txt", "file.txt", true},
		{"deep/nested/dir/test.shp", "test.shp", true},
		{`windows\style\file.dbf`, "file.dbf", true},
		{"/absolute/path/file.txt", "file.txt", true},
		{"trailing/slash/", "slash", true},
		{"../../evil", "", false},
		{"dir/../file.txt", "", false},
		{`..\..\evil`, "", false},
		{"..", "", false},
		{".", "", false},
		{"/", "", false},
		{"", "", false},
	}

	for _, test := range tests {
		got, ok := entryFileName(test.name)
		if got != test.want || ok != test.wantOk {
			t.Errorf("entryFileName(%q) = %q, %v; want %q, %v", test.name, got, ok, test.want, test.wantOk)
		}
	}
}
