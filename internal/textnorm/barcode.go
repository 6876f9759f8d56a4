package textnorm

// ValidBarcodeChecksum reports whether a barcode carries a valid GTIN check
// digit. EAN-8, UPC-A (12), EAN-13, and GTIN-14 lengths are accepted; spaces
// and hyphens are ignored. Any other character or length fails validation.
func ValidBarcodeChecksum(code string) bool {
	digits := make([]int, 0, 14)
	for _, r := range code {
		switch {
		case r >= '0' && r <= '9':
			digits = append(digits, int(r-'0'))
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	switch len(digits) {
	case 8, 12, 13, 14:
	default:
		return false
	}

	sum := 0
	weight := 3
	for i := len(digits) - 2; i >= 0; i-- {
		sum += digits[i] * weight
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	check := (10 - sum%10) % 10
	return check == digits[len(digits)-1]
}
