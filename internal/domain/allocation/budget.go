package allocation

// EvictFrontRow は候補から最も前方（列番号が最小）の列の座席をすべて外す
// 元の候補は変更せず、新しい候補と外した座席数を返す
func EvictFrontRow(sel Selection) (Selection, int) {
	if len(sel) == 0 {
		return Selection{}, 0
	}

	front := sel[0].RowNumber
	for _, seat := range sel[1:] {
		if seat.RowNumber < front {
			front = seat.RowNumber
		}
	}

	kept := make(Selection, 0, len(sel))
	for _, seat := range sel {
		if seat.RowNumber != front {
			kept = append(kept, seat)
		}
	}
	return kept, len(sel) - len(kept)
}
