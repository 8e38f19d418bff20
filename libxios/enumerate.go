package libxios

// EnumMotifs streams every distinct connected motif having minStems to
// maxStems stems, each exactly once, as a canonically labeled graph.
//
// Enumeration grows abstract serial topologies breadth-first from the
// single stem, inserting one new stem at every possible half-stem position
// pair.  Candidates are first deduped as serial strings (a structure and
// its end-to-end reversal are the same topology), then connected candidates
// are deduped by canonical code.  Disconnected intermediates stay in the
// frontier since later stems can join their parts.
func EnumMotifs(minStems, maxStems int32, opts StemOpts) *MotifStream {
	stream := NewMotifStream()

	go func() {
		enumMotifs(minStems, maxStems, opts, stream)
		stream.Close()
	}()

	return stream
}

func enumMotifs(minStems, maxStems int32, opts StemOpts, out *MotifStream) {
	if maxStems < 2 {
		return
	}
	maxLen := int(maxStems) * 2

	frontier := []SerialRNA{{0, 0}}
	seenStr := make(map[string]bool)
	seenCode := make(map[string]bool)

	for len(frontier) > 0 {
		rna := frontier[0]
		if len(rna) >= maxLen {
			break
		}
		frontier = frontier[1:]

		for _, child := range rna.AddStemAll() {
			fstr, bstr := child.CanonicalFB()
			if seenStr[fstr] || seenStr[bstr] {
				continue
			}
			seenStr[fstr] = true
			seenStr[bstr] = true

			if child.IsConnected() {
				X := NewXios(nil)
				if err := X.InitFromSerial(child, opts); err != nil {
					panic(err)
				}
				code := MinDFSOf(X)
				key := code.Ascii()
				if seenCode[key] {
					// same motif reached along another insertion order
					X.Reclaim()
					continue
				}
				seenCode[key] = true

				stems := child.NumStems()
				if int32(stems) >= minStems && int32(stems) <= maxStems {
					out.Outlet <- X
				} else {
					X.Reclaim()
				}
			}

			frontier = append(frontier, child)
		}
	}
}
