package customer

// Customer は顧客エンティティを表す
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Address   string
}

// FullName は表示用の氏名を返す
func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
