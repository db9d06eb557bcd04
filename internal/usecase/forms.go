package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"telegram-car-rental/internal/domain"
	"telegram-car-rental/internal/domain/model"
	"telegram-car-rental/internal/form"
)

// Form names.
const (
	FormAddProduct   = "add_product"
	FormRegistration = "registration"
	FormBanner       = "banner"
)

// Product form fields, in step order.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldPrice       = "price"
	FieldImage       = "image"
	FieldStatus      = "status"
)

// Registration and banner form fields.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldPhone     = "phone"
	FieldPage      = "page"
)

const maxPersonNameLen = 64

// Texts resolves prompt keys.
type Texts interface {
	T(key string, args ...interface{}) string
}

// NewProductForm builds the admin form that creates or edits a product.
func NewProductForm(catalog CatalogUseCase, t Texts) *form.Definition {
	categoryOptions := func(ctx context.Context) ([]form.Option, error) {
		cats, err := catalog.Categories(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]form.Option, 0, len(cats))
		for _, c := range cats {
			opts = append(opts, form.Option{Label: c.Name, Value: strconv.FormatInt(c.ID, 10)})
		}
		return opts, nil
	}
	parseStatus := func(s string) (string, error) {
		st, err := model.ParseProductStatus(s)
		return string(st), err
	}

	return &form.Definition{
		Name: FormAddProduct,
		Steps: []*form.Step{
			{
				Name:     FieldName,
				Prompt:   t.T("form_product_name"),
				Kind:     form.KindText,
				Validate: form.MaxLen(1, model.MaxProductNameLen, t.T("form_product_name_retry")),
			},
			{
				Name:     FieldDescription,
				Prompt:   t.T("form_product_description"),
				Kind:     form.KindText,
				Validate: form.Any(),
			},
			{
				Name:     FieldCategory,
				Prompt:   t.T("form_product_category"),
				Retry:    t.T("form_product_category_retry"),
				Kind:     form.KindChoice,
				Options:  categoryOptions,
				Validate: form.ChoiceFrom(categoryOptions, t.T("form_product_category_retry")),
			},
			{
				Name:     FieldPrice,
				Prompt:   t.T("form_product_price"),
				Kind:     form.KindText,
				Validate: form.NonNegativeNumber(model.MaxProductPrice, model.PriceScale, t.T("form_product_price_retry")),
			},
			{
				Name:     FieldImage,
				Prompt:   t.T("form_product_image"),
				Retry:    t.T("form_product_image_retry"),
				Kind:     form.KindPhoto,
				Validate: form.Photo(t.T("form_product_image_retry")),
			},
			{
				Name:     FieldStatus,
				Prompt:   t.T("form_product_status"),
				Kind:     form.KindText,
				Validate: form.OneOf(parseStatus, t.T("form_product_status_retry")),
			},
		},
		Commit: func(ctx context.Context, c form.Commit) error {
			return commitProduct(ctx, catalog, c)
		},
	}
}

func commitProduct(ctx context.Context, catalog CatalogUseCase, c form.Commit) error {
	price, err := strconv.ParseFloat(c.Fields[FieldPrice], 64)
	if err != nil {
		return fmt.Errorf("price %q: %w", c.Fields[FieldPrice], domain.ErrInvalidArgument)
	}
	categoryID, err := strconv.ParseInt(c.Fields[FieldCategory], 10, 64)
	if err != nil {
		return fmt.Errorf("category %q: %w", c.Fields[FieldCategory], domain.ErrInvalidArgument)
	}
	status, err := model.ParseProductStatus(c.Fields[FieldStatus])
	if err != nil {
		return err
	}

	if c.EditingID == nil {
		p, err := model.NewProduct(c.Fields[FieldName], c.Fields[FieldDescription], price, c.Fields[FieldImage], status, categoryID)
		if err != nil {
			return err
		}
		return catalog.CreateProduct(ctx, p)
	}

	p, err := catalog.Product(ctx, *c.EditingID)
	if err != nil {
		return err
	}
	p.Name = c.Fields[FieldName]
	p.Description = c.Fields[FieldDescription]
	p.CategoryID = categoryID
	p.Price = price
	p.Image = c.Fields[FieldImage]
	p.Status = status
	return catalog.UpdateProduct(ctx, p)
}

// ProductPrefill returns the edit-mode prefill for p.
func ProductPrefill(p *model.Product) *form.Prefill {
	return &form.Prefill{
		ID: p.ID,
		Fields: map[string]string{
			FieldName:        p.Name,
			FieldDescription: p.Description,
			FieldCategory:    strconv.FormatInt(p.CategoryID, 10),
			FieldPrice:       strconv.FormatFloat(p.Price, 'f', -1, 64),
			FieldImage:       p.Image,
			FieldStatus:      string(p.Status),
		},
	}
}

// NewRegistrationForm collects first name, last name and the sender's own
// contact, then stores the user.
func NewRegistrationForm(users UserUseCase, t Texts) *form.Definition {
	return &form.Definition{
		Name: FormRegistration,
		Steps: []*form.Step{
			{
				Name:     FieldFirstName,
				Prompt:   t.T("form_reg_first_name"),
				Kind:     form.KindText,
				Validate: form.TrimmedLen(1, maxPersonNameLen, t.T("form_reg_first_name_retry")),
			},
			{
				Name:     FieldLastName,
				Prompt:   t.T("form_reg_last_name"),
				Kind:     form.KindText,
				Validate: form.TrimmedLen(1, maxPersonNameLen, t.T("form_reg_last_name_retry")),
			},
			{
				Name:     FieldPhone,
				Prompt:   t.T("form_reg_phone"),
				Retry:    t.T("form_reg_phone_retry"),
				Kind:     form.KindContact,
				Validate: form.OwnContact(t.T("form_reg_phone_retry")),
			},
		},
		Commit: func(ctx context.Context, c form.Commit) error {
			_, err := users.Register(ctx, c.ConversationID,
				c.Fields[FieldFirstName],
				c.Fields[FieldLastName],
				c.Fields[FieldPhone],
			)
			return err
		},
	}
}

// NewBannerForm lets an admin pick an info page and upload its picture.
func NewBannerForm(catalog CatalogUseCase, t Texts) *form.Definition {
	pageOptions := func(context.Context) ([]form.Option, error) {
		opts := make([]form.Option, 0, len(model.InfoPages))
		for _, p := range model.InfoPages {
			opts = append(opts, form.Option{Label: p, Value: p})
		}
		return opts, nil
	}
	pageRetry := t.T("form_banner_page_retry", strings.Join(model.InfoPages, ", "))

	return &form.Definition{
		Name: FormBanner,
		Steps: []*form.Step{
			{
				Name:     FieldPage,
				Prompt:   t.T("form_banner_page"),
				Retry:    pageRetry,
				Kind:     form.KindChoice,
				Also:     []form.InputKind{form.KindText},
				Options:  pageOptions,
				Validate: form.ChoiceFrom(pageOptions, pageRetry),
			},
			{
				Name:     FieldImage,
				Prompt:   t.T("form_banner_image"),
				Retry:    t.T("form_banner_image_retry"),
				Kind:     form.KindPhoto,
				Validate: form.Photo(t.T("form_banner_image_retry")),
			},
		},
		Commit: func(ctx context.Context, c form.Commit) error {
			return catalog.SetBannerImage(ctx, c.Fields[FieldPage], c.Fields[FieldImage])
		},
	}
}
