package oracle

import "fmt"

// DESCrypt is the traditional crypt(3) scheme: a 2-character salt perturbs
// the DES expansion table, a zero block is encrypted 25 times with the first
// 8 characters of the password as the key, and the result is encoded as
// salt + 11 characters.
type DESCrypt struct{}

// Name implements Oracle.
func (DESCrypt) Name() string {
	return "descrypt"
}

// HashLen implements Oracle.
func (DESCrypt) HashLen() int {
	return 13
}

// Hash implements Oracle. Only the first two characters of saltOrHash are used.
func (DESCrypt) Hash(word, saltOrHash string) (string, error) {
	if len(saltOrHash) < 2 {
		return "", fmt.Errorf("%w: descrypt needs 2 salt characters, got %d", ErrInvalidSalt, len(saltOrHash))
	}
	var salt [2]int
	for i := range salt {
		v, ok := saltValue(saltOrHash[i])
		if !ok {
			return "", fmt.Errorf("%w: %q is not a crypt salt character", ErrInvalidSalt, saltOrHash[i])
		}
		salt[i] = v
	}

	// 7 bits per character, most significant first; the parity bit stays zero.
	var key [64]byte
	for i := 0; i < 8 && i < len(word); i++ {
		c := word[i]
		for j := 0; j < 7; j++ {
			key[8*i+j] = (c >> (6 - j)) & 1
		}
	}
	ks := keySchedule(&key)

	e := expansion
	for i := range salt {
		for j := 0; j < 6; j++ {
			if (salt[i]>>j)&1 == 1 {
				e[6*i+j], e[6*i+j+24] = e[6*i+j+24], e[6*i+j]
			}
		}
	}

	// Two trailing zero bits pad the 64-bit block to 11 six-bit groups.
	var block [66]byte
	for i := 0; i < 25; i++ {
		encryptBlock((*[64]byte)(block[:64]), &ks, &e)
	}

	out := make([]byte, 13)
	out[0], out[1] = saltOrHash[0], saltOrHash[1]
	for i := 0; i < 11; i++ {
		c := 0
		for j := 0; j < 6; j++ {
			c = c<<1 | int(block[6*i+j])
		}
		out[i+2] = cryptAlphabet[c]
	}
	return string(out), nil
}

// keySchedule derives the 16 round keys, one bit per byte.
func keySchedule(key *[64]byte) [16][48]byte {
	var cd [56]byte
	for i, p := range permutedChoice1 {
		cd[i] = key[p-1]
	}

	var ks [16][48]byte
	for round, n := range keyShifts {
		for k := 0; k < n; k++ {
			c0, d0 := cd[0], cd[28]
			copy(cd[0:27], cd[1:28])
			copy(cd[28:55], cd[29:56])
			cd[27], cd[55] = c0, d0
		}
		for j, p := range permutedChoice2 {
			ks[round][j] = cd[p-1]
		}
	}
	return ks
}

// encryptBlock runs one full DES encryption in place using the expansion
// table e, which may be salt-perturbed.
func encryptBlock(block *[64]byte, ks *[16][48]byte, e *[48]byte) {
	var lr [64]byte
	for j, p := range initialPermutation {
		lr[j] = block[p-1]
	}
	l, r := lr[:32], lr[32:]

	var saved, f [32]byte
	var preS [48]byte
	for round := 0; round < 16; round++ {
		copy(saved[:], r)
		for j := 0; j < 48; j++ {
			preS[j] = r[e[j]-1] ^ ks[round][j]
		}
		for j := 0; j < 8; j++ {
			t := 6 * j
			row := preS[t]<<1 | preS[t+5]
			col := preS[t+1]<<3 | preS[t+2]<<2 | preS[t+3]<<1 | preS[t+4]
			k := sBoxes[j][int(row)*16+int(col)]
			t = 4 * j
			f[t] = (k >> 3) & 1
			f[t+1] = (k >> 2) & 1
			f[t+2] = (k >> 1) & 1
			f[t+3] = k & 1
		}
		for j := 0; j < 32; j++ {
			r[j] = l[j] ^ f[permutation[j]-1]
		}
		copy(l, saved[:])
	}

	var rl [64]byte
	copy(rl[:32], r)
	copy(rl[32:], l)
	for j, p := range finalPermutation {
		block[j] = rl[p-1]
	}
}
