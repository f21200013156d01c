package vault

import "fmt"

// Artifact files start with a fixed header so a damaged or foreign
// file is rejected before key derivation:
//
//	magic "VNTV" | version (1) | algorithm (1) | salt (16) |
//	nonce (12) | content digest (32) | ciphertext
const (
	fileMagic     = "VNTV"
	formatVersion = 1
	algAES256GCM  = 1
	digestSize    = 32
	headerSize    = len(fileMagic) + 2 + saltSize + nonceSize + digestSize
)

type artifactHeader struct {
	salt   []byte
	nonce  []byte
	digest []byte
}

// encodeArtifact assembles the on-disk representation of a sealed
// artifact.
func encodeArtifact(h artifactHeader, ciphertext []byte) []byte {
	buf := make([]byte, 0, headerSize+len(ciphertext))
	buf = append(buf, fileMagic...)
	buf = append(buf, formatVersion, algAES256GCM)
	buf = append(buf, h.salt...)
	buf = append(buf, h.nonce...)
	buf = append(buf, h.digest...)
	return append(buf, ciphertext...)
}

// decodeArtifact splits a raw artifact file into header and
// ciphertext, validating the magic, version, and algorithm bytes.
func decodeArtifact(raw []byte) (artifactHeader, []byte, error) {
	if len(raw) < headerSize {
		return artifactHeader{}, nil, fmt.Errorf("artifact file truncated: %d bytes", len(raw))
	}
	if string(raw[:len(fileMagic)]) != fileMagic {
		return artifactHeader{}, nil, fmt.Errorf("not a vault artifact file")
	}
	version, alg := raw[4], raw[5]
	if version != formatVersion {
		return artifactHeader{}, nil, fmt.Errorf("unsupported artifact version: %d", version)
	}
	if alg != algAES256GCM {
		return artifactHeader{}, nil, fmt.Errorf("unsupported artifact algorithm: %d", alg)
	}

	off := len(fileMagic) + 2
	h := artifactHeader{
		salt:   raw[off : off+saltSize],
		nonce:  raw[off+saltSize : off+saltSize+nonceSize],
		digest: raw[off+saltSize+nonceSize : off+saltSize+nonceSize+digestSize],
	}
	return h, raw[headerSize:], nil
}
