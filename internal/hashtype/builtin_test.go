package hashtype

import "testing"

func TestBuiltinPatternsCompile(t *testing.T) {
	for _, entry := range Builtin().Entries() {
		if err := entry.PatternErr(); err != nil {
			t.Fatalf("%s pattern failed to compile: %v", entry.Name, err)
		}
	}
}

func TestBuiltinNamesAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, entry := range Builtin().Entries() {
		if _, dup := seen[entry.Name]; dup {
			t.Fatalf("duplicate catalog name %s", entry.Name)
		}
		seen[entry.Name] = struct{}{}
	}
}

func TestBuiltinAmbiguityFamilies(t *testing.T) {
	families := map[string][]string{}
	for _, entry := range Builtin().Entries() {
		if entry.Shared() {
			families[entry.Pattern] = append(families[entry.Pattern], entry.Name)
		}
	}

	expected := [][]string{
		{"CRC-32", "CRC-32B", "Adler-32"},
		{"MD5", "NTLM", "MD4", "LM"},
		{"DCC", "DCC2"},
		{"SHA-224", "SHA3-224"},
		{"SHA-384", "SHA3-384"},
	}
	if len(families) != len(expected) {
		t.Fatalf("expected %d shared-pattern families, got %d: %v", len(expected), len(families), families)
	}
	for _, want := range expected {
		found := false
		for _, members := range families {
			if equalStringSlices(members, want) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing family %v in %v", want, families)
		}
	}
}

func TestBuiltinUniqueDigestEntries(t *testing.T) {
	// Raw digests with no structural twin must stay unshared so common
	// entries among them can score as confident identifications.
	for _, name := range []string{"SHA-1", "SHA-256", "SHA-512", "MySQL323", "BCrypt"} {
		entry, ok := Builtin().Find(name)
		if !ok {
			t.Fatalf("missing builtin entry %s", name)
		}
		if entry.Shared() {
			t.Fatalf("expected %s pattern to be unique", name)
		}
	}
}

func TestBuiltinSampleInputs(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{name: "MD5", input: "5f4dcc3b5aa765d61d8327deb882cf99"},
		{name: "SHA-1", input: "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"},
		{name: "MySQL4.1+", input: "*2470C0C06DEE42FD1618BB99005ADCA2EC9D1E19"},
		{name: "BCrypt", input: "$2a$12$K3JNi5vQMio5UQRrUJQOm.7U8Fb3sacDJIQUblk75jtpz6nbMPuFS"},
		{name: "sha512crypt", input: "$6$rounds=5000$usesomesillystri$D4IrlXatmP7rx3P3InaxBeoomnAihCKRVQP22JZ6EY47Wc6BkroIuUUBOov1i.S5KPgErtP/EN5mcO.ChWQW21"},
		{name: "phpass", input: "$P$8ohUJ.1sdFw09/bMaAQPTGDNi2BIUt1"},
		{name: "NetNTLMv2", input: "admin::N46iSNekpT:08ca45b7d7ea58ee:88dcbe4446168966a153a0064958dac6:5c7830315c7830310000000000000b45c67103d07d7b95acd12ffa11230e0000000052920b85f78d013c31cdb3b92f5d765c783030"},
		{name: "Argon2", input: "$argon2id$v=19$m=65536,t=3,p=4$c29tZXNhbHQ$RdescudvJCsgt3ub+b+dWRWJTmaaJObG"},
	}

	for _, tc := range cases {
		entry, ok := Builtin().Find(tc.name)
		if !ok {
			t.Fatalf("missing builtin entry %s", tc.name)
		}
		if !entry.Matches(tc.input) {
			t.Fatalf("expected %s to match %q", tc.name, tc.input)
		}
	}
}

func TestBuiltinRejectsMismatchedCase(t *testing.T) {
	md5, _ := Builtin().Find("MD5")
	if md5.Matches("5F4DCC3B5AA765D61D8327DEB882CF99") {
		t.Fatal("raw digest patterns are lowercase only")
	}
	mysql, _ := Builtin().Find("MySQL4.1+")
	if mysql.Matches("*2470c0c06dee42fd1618bb99005adca2ec9d1e19") {
		t.Fatal("MySQL4.1+ digests are uppercase only")
	}
}

func TestBuiltinDefinitionsReturnsCopy(t *testing.T) {
	definitions := BuiltinDefinitions()
	definitions[0].Name = "Mutated"
	if BuiltinDefinitions()[0].Name == "Mutated" {
		t.Fatal("mutating the returned definitions must not change the catalog")
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
