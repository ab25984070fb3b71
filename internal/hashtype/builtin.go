package hashtype

// Pattern text is compared byte-for-byte to detect ambiguity families, so
// entries that are structurally indistinguishable must reuse the exact same
// string. Keep the raw-length digests grouped by length below.
const (
	patternHex8   = `^[a-f0-9]{8}$`
	patternHex16  = `^[a-f0-9]{16}$`
	patternHex32  = `^[a-f0-9]{32}$`
	patternHex40  = `^[a-f0-9]{40}$`
	patternHex56  = `^[a-f0-9]{56}$`
	patternHex64  = `^[a-f0-9]{64}$`
	patternHex96  = `^[a-f0-9]{96}$`
	patternHex128 = `^[a-f0-9]{128}$`
	patternCached = `^[a-f0-9]{32}:[a-z0-9_.-]+$`
)

var builtinDefinitions = []Definition{
	{
		Name:        "CRC-32",
		Pattern:     patternHex8,
		Rarity:      RarityCommon,
		Description: "32-bit cyclic redundancy checksum, typically file integrity output rather than a password hash",
	},
	{
		Name:        "CRC-32B",
		Pattern:     patternHex8,
		Rarity:      RarityUncommon,
		Description: "CRC-32 variant with the reflected polynomial, as produced by PHP's hash(\"crc32b\")",
	},
	{
		Name:        "Adler-32",
		Pattern:     patternHex8,
		Rarity:      RarityUncommon,
		Description: "Adler-32 rolling checksum from zlib",
	},
	{
		Name:        "MySQL323",
		Pattern:     patternHex16,
		Rarity:      RarityUncommon,
		Description: "MySQL password hash used before version 4.1",
	},
	{
		Name:        "MD5",
		Pattern:     patternHex32,
		Rarity:      RarityCommon,
		Description: "128-bit MD5 digest, the most common unsalted hash in older dumps",
	},
	{
		Name:        "NTLM",
		Pattern:     patternHex32,
		Rarity:      RarityCommon,
		Description: "Windows NT hash, an MD4 digest of the UTF-16LE password",
	},
	{
		Name:        "MD4",
		Pattern:     patternHex32,
		Rarity:      RarityUncommon,
		Description: "128-bit MD4 digest, the MD5 predecessor",
	},
	{
		Name:        "LM",
		Pattern:     patternHex32,
		Rarity:      RarityUncommon,
		Description: "legacy LAN Manager hash built from two DES halves of an uppercased password",
	},
	{
		Name:        "DCC",
		Pattern:     patternCached,
		Rarity:      RarityUncommon,
		Description: "Domain Cached Credentials (MS Cache v1) digest paired with the lowercase username",
	},
	{
		Name:        "DCC2",
		Pattern:     patternCached,
		Rarity:      RarityUncommon,
		Description: "Domain Cached Credentials 2 (MS Cache v2), the PBKDF2-hardened variant",
	},
	{
		Name:        "SHA-1",
		Pattern:     patternHex40,
		Rarity:      RarityCommon,
		Description: "160-bit SHA-1 digest",
	},
	{
		Name:        "MySQL4.1+",
		Pattern:     `^\*[A-F0-9]{40}$`,
		Rarity:      RarityUncommon,
		Description: "MySQL 4.1 and later password hash, an uppercase double SHA-1 prefixed with an asterisk",
	},
	{
		Name:        "SHA-224",
		Pattern:     patternHex56,
		Rarity:      RarityUncommon,
		Description: "224-bit truncation of the SHA-2 family",
	},
	{
		Name:        "SHA3-224",
		Pattern:     patternHex56,
		Rarity:      RarityRare,
		Description: "224-bit Keccak-based SHA-3 digest",
	},
	{
		Name:        "SHA-256",
		Pattern:     patternHex64,
		Rarity:      RarityCommon,
		Description: "256-bit SHA-2 digest, the usual choice for modern checksums",
	},
	{
		Name:        "SHA-384",
		Pattern:     patternHex96,
		Rarity:      RarityUncommon,
		Description: "384-bit truncation of SHA-512",
	},
	{
		Name:        "SHA3-384",
		Pattern:     patternHex96,
		Rarity:      RarityRare,
		Description: "384-bit Keccak-based SHA-3 digest",
	},
	{
		Name:        "SHA-512",
		Pattern:     patternHex128,
		Rarity:      RarityCommon,
		Description: "512-bit SHA-2 digest",
	},
	{
		Name:        "descrypt",
		Pattern:     `^[./A-Za-z0-9]{13}$`,
		Rarity:      RarityUncommon,
		Description: "traditional DES-based Unix crypt(3) with a two-character salt",
	},
	{
		Name:        "md5crypt",
		Pattern:     `^\$1\$[./A-Za-z0-9]{0,8}\$[./A-Za-z0-9]{22}$`,
		Rarity:      RarityCommon,
		Description: "MD5-based Unix crypt ($1$) used by older Linux systems and Cisco IOS",
	},
	{
		Name:        "apr1",
		Pattern:     `^\$apr1\$[./A-Za-z0-9]{0,8}\$[./A-Za-z0-9]{22}$`,
		Rarity:      RarityUncommon,
		Description: "Apache variant of md5crypt produced by htpasswd",
	},
	{
		Name:        "sha256crypt",
		Pattern:     `^\$5\$(?:rounds=\d+\$)?[./A-Za-z0-9]{0,16}\$[./A-Za-z0-9]{43}$`,
		Rarity:      RarityUncommon,
		Description: "SHA-256 based Unix crypt ($5$) with an optional rounds parameter",
	},
	{
		Name:        "sha512crypt",
		Pattern:     `^\$6\$(?:rounds=\d+\$)?[./A-Za-z0-9]{0,16}\$[./A-Za-z0-9]{86}$`,
		Rarity:      RarityCommon,
		Description: "SHA-512 based Unix crypt ($6$), the default on most modern Linux systems",
	},
	{
		Name:        "BCrypt",
		Pattern:     `^\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}$`,
		Rarity:      RarityCommon,
		Description: "Blowfish-based adaptive hash with embedded cost and salt",
	},
	{
		Name:        "phpass",
		Pattern:     `^\$[PH]\$[./A-Za-z0-9]{31}$`,
		Rarity:      RarityUncommon,
		Description: "portable PHP password hash used by WordPress and phpBB",
	},
	{
		Name:        "PBKDF2-SHA256",
		Pattern:     `^\$pbkdf2-sha256\$\d+\$[A-Za-z0-9./+]+\$[A-Za-z0-9./+]+$`,
		Rarity:      RarityUncommon,
		Description: "passlib-style PBKDF2-HMAC-SHA256 with iteration count, salt, and digest",
	},
	{
		Name:        "scrypt",
		Pattern:     `^\$scrypt\$ln=\d+,r=\d+,p=\d+\$[A-Za-z0-9+/]+\$[A-Za-z0-9+/]+$`,
		Rarity:      RarityRare,
		Description: "memory-hard scrypt hash with ln, r, and p cost parameters",
	},
	{
		Name:        "Argon2",
		Pattern:     `^\$argon2(?:i|d|id)\$v=\d+\$m=\d+,t=\d+,p=\d+\$[A-Za-z0-9+/]+\$[A-Za-z0-9+/]+$`,
		Rarity:      RarityUncommon,
		Description: "Argon2 password hash carrying version and memory, time, and parallelism costs",
	},
	{
		Name:        "NetNTLMv1",
		Pattern:     `^[^:]+::[^:]+:[a-f0-9]{48}:[a-f0-9]{48}:[a-f0-9]{16}$`,
		Rarity:      RarityUncommon,
		Description: "NTLMv1 challenge-response capture in user::domain:lm:nt:challenge form",
	},
	{
		Name:        "NetNTLMv2",
		Pattern:     `^[^:]+::[^:]+:[a-f0-9]{16}:[a-f0-9]{32}:[a-f0-9]+$`,
		Rarity:      RarityUncommon,
		Description: "NTLMv2 challenge-response capture with server challenge and NTProofStr",
	},
}

// BuiltinDefinitions returns a fresh copy of the built-in catalog in registry
// order, suitable for appending custom definitions before building a registry.
func BuiltinDefinitions() []Definition {
	definitions := make([]Definition, len(builtinDefinitions))
	copy(definitions, builtinDefinitions)
	return definitions
}
