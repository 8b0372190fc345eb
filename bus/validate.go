package bus

// MaxBurstLength is the largest access, in bytes, that targets accept.
const MaxBurstLength = 4

// CheckBurst validates the shape of an access: no byte enables, no more than
// MaxBurstLength bytes, no streaming narrower than the access and a data
// buffer that holds the whole access.
func CheckBurst(trans *Transaction) ResponseStatus {
	if trans.ByteEnable != nil {
		return ResponseByteEnableError
	}

	if trans.Length > MaxBurstLength ||
		trans.StreamingWidth < trans.Length {
		return ResponseBurstError
	}

	if trans.Length <= 0 || len(trans.Data) < trans.Length {
		return ResponseGenericError
	}

	return ResponseOK
}

// ValidateAccess checks an access against a backing store of the given size.
// It returns ResponseOK if the access can be performed.
func ValidateAccess(trans *Transaction, size uint64) ResponseStatus {
	if trans.Address >= size ||
		trans.Length > 0 && trans.Address+uint64(trans.Length) > size {
		return ResponseAddressError
	}

	return CheckBurst(trans)
}
