package domain

// DefaultPageLimit используется, когда клиент не задал limit явно.
const DefaultPageLimit = 10

// Pagination описывает запрос страницы заказов с опциональным фильтром
// по статусу.
type Pagination struct {
	Page   int
	Limit  int
	Status *OrderStatus
}

// Normalize приводит параметры к допустимым значениям: страница не меньше
// первой, limit положительный с дефолтом.
func (p Pagination) Normalize(defaultLimit int) Pagination {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	return p
}

// Offset возвращает количество пропускаемых записей: (page-1)*limit.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta — метаданные страницы выдачи.
type PageMeta struct {
	Total    int
	Page     int
	LastPage int
}

// NewPageMeta считает последнюю страницу как ceil(total/limit).
func NewPageMeta(total, page, limit int) PageMeta {
	lastPage := 0
	if limit > 0 {
		lastPage = (total + limit - 1) / limit
	}
	return PageMeta{
		Total:    total,
		Page:     page,
		LastPage: lastPage,
	}
}

// OrderPage — страница заказов вместе с метаданными.
type OrderPage struct {
	Data []Order
	Meta PageMeta
}
