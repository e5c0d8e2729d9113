package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"burgerlog/chart"
	"burgerlog/i18n"
	"burgerlog/media"
	"burgerlog/models"
	"burgerlog/sorting"
	"burgerlog/store"
)

// AutoLang as the default language negotiates from Accept-Language.
const AutoLang = "auto"

const pentagonRadius = 120

// Form defaults for a new review.
const (
	defaultRating = 5
	defaultPrice  = 1000
)

var notices = map[string]i18n.Key{
	"saved":    i18n.SaveSuccess,
	"updated":  i18n.UpdateSuccess,
	"imported": i18n.ImportSuccess,
}

var alerts = map[string]i18n.Key{
	"import": i18n.ImportFail,
	"export": i18n.ExportFail,
	"delete": i18n.DeleteFail,
}

var sortLabels = map[sorting.Mode]i18n.Key{
	sorting.DateDesc:   i18n.SortNewest,
	sorting.DateAsc:    i18n.SortOldest,
	sorting.RatingDesc: i18n.SortHighRating,
	sorting.RatingAsc:  i18n.SortLowRating,
}

// PageOptions configures the HTML interface.
type PageOptions struct {
	// APIBase prefixes relative image addresses, for images served from
	// another origin.
	APIBase string
	// DefaultLang is "ja", "en" or AutoLang.
	DefaultLang string
}

// Pages serves the server-rendered interface.
type Pages struct {
	reviews Reviews
	images  *media.Store
	logger  *zap.Logger
	opts    PageOptions
	tmpl    *renderer
}

func NewPages(reviews Reviews, images *media.Store, logger *zap.Logger, opts PageOptions) (*Pages, error) {
	tmpl, err := newRenderer()
	if err != nil {
		return nil, err
	}
	opts.APIBase = strings.TrimRight(opts.APIBase, "/")
	return &Pages{reviews: reviews, images: images, logger: logger, opts: opts, tmpl: tmpl}, nil
}

type sortOption struct {
	Value    sorting.Mode
	Label    string
	Selected bool
}

// page carries what every template needs. Language and sort order travel in
// the query string.
type page struct {
	Title      string
	Lang       string
	L          map[string]string
	Sort       sorting.Mode
	Sorts      []sortOption
	ToggleLink string
	Notice     string
	Alert      string

	lang i18n.Lang
}

// Link returns path with the current language and sort order attached.
func (p page) Link(path string) string {
	q := url.Values{}
	q.Set("lang", p.Lang)
	q.Set("sort", string(p.Sort))
	return path + "?" + q.Encode()
}

func (p *Pages) resolveLang(r *http.Request) i18n.Lang {
	if l, ok := i18n.ParseLang(r.URL.Query().Get("lang")); ok {
		return l
	}
	if p.opts.DefaultLang == AutoLang {
		return i18n.Negotiate(r.Header.Get("Accept-Language"))
	}
	l, _ := i18n.ParseLang(p.opts.DefaultLang)
	return l
}

func (p *Pages) newPage(r *http.Request, title i18n.Key) page {
	lang := p.resolveLang(r)
	mode, _ := sorting.ParseMode(r.URL.Query().Get("sort"))
	pg := page{
		Lang: lang.Code(),
		L:    i18n.Labels(lang),
		Sort: mode,
		lang: lang,
	}
	pg.Title = lang.T(title)
	for _, m := range sorting.Modes {
		pg.Sorts = append(pg.Sorts, sortOption{Value: m, Label: lang.T(sortLabels[m]), Selected: m == mode})
	}

	q := r.URL.Query()
	q.Set("lang", lang.Toggle().Code())
	q.Del("notice")
	q.Del("alert")
	pg.ToggleLink = r.URL.Path + "?" + q.Encode()

	if k, ok := notices[r.URL.Query().Get("notice")]; ok {
		pg.Notice = lang.T(k)
	}
	if k, ok := alerts[r.URL.Query().Get("alert")]; ok {
		pg.Alert = lang.T(k)
	}
	return pg
}

// asset resolves an image address against APIBase.
func (p *Pages) asset(u string) string {
	if u == "" || !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") {
		return u
	}
	return p.opts.APIBase + u
}

func (p *Pages) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (p *Pages) fail(w http.ResponseWriter, r *http.Request, err error) {
	pg := p.newPage(r, i18n.AppTitle)
	status := http.StatusInternalServerError
	message := somethingWentWrong
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
		message = pg.lang.T(i18n.NotFound)
	} else {
		requestLogger(r, p.logger).Error("page failed", zap.Error(err))
	}
	view := struct {
		page
		Message string
	}{pg, message}
	if err := p.tmpl.render(w, status, "error.html", view); err != nil {
		requestLogger(r, p.logger).Error("render error page", zap.Error(err))
		http.Error(w, somethingWentWrong, http.StatusInternalServerError)
	}
}

func (p *Pages) show(w http.ResponseWriter, r *http.Request, status int, name string, view any) {
	if err := p.tmpl.render(w, status, name, view); err != nil {
		requestLogger(r, p.logger).Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, somethingWentWrong, http.StatusInternalServerError)
	}
}

type card struct {
	models.Review
	Image   string
	Thumb   string
	Link    string
	Delete  string
	Profile chart.Profile
}

// List renders the grid of review cards in the selected order.
func (p *Pages) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg := p.newPage(r, i18n.AppTitle)
		list, err := p.reviews.List(r.Context(), store.ListOptions{})
		if err != nil {
			p.fail(w, r, err)
			return
		}

		cards := make([]card, 0, len(list))
		for _, rv := range sorting.Sort(list, pg.Sort) {
			c := card{
				Review:  rv,
				Link:    pg.Link(fmt.Sprintf("/r/%d", rv.ID)),
				Delete:  pg.Link(fmt.Sprintf("/r/%d/delete", rv.ID)),
				Profile: chart.NewProfile(rv, pg.lang, chart.Compact),
			}
			if rv.ImageURL != "" {
				c.Image = p.asset(rv.ImageURL)
				c.Thumb = p.asset(media.ThumbURL(rv.ImageURL))
			}
			cards = append(cards, c)
		}

		p.show(w, r, http.StatusOK, "list.html", struct {
			page
			Cards []card
		}{pg, cards})
	}
}

// Detail renders one review with the larger chart and the pentagon overlay.
func (p *Pages) Detail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg := p.newPage(r, i18n.AppTitle)
		id, err := pathID(r)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		rv, err := p.reviews.Get(r.Context(), id)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		pg.Title = rv.BurgerName

		p.show(w, r, http.StatusOK, "detail.html", struct {
			page
			Review   models.Review
			Image    string
			Edit     string
			Delete   string
			Profile  chart.Profile
			Pentagon chart.Polygon
			Size     int
		}{
			page:     pg,
			Review:   rv,
			Image:    p.asset(rv.ImageURL),
			Edit:     pg.Link(fmt.Sprintf("/r/%d/edit", rv.ID)),
			Delete:   pg.Link(fmt.Sprintf("/r/%d/delete", rv.ID)),
			Profile:  chart.NewProfile(rv, pg.lang, chart.Detail),
			Pentagon: chart.NewPentagon(rv, pentagonRadius),
			Size:     2 * pentagonRadius,
		})
	}
}

// formValues mirrors the form inputs as text so a rejected submission is
// shown back exactly as typed.
type formValues struct {
	ShopName   string
	BurgerName string
	Rating     string
	Price      string
	VisitDate  string
	Comment    string
	Tags       string
	ImageURL   string
	Axes       map[string]string
}

type axisInput struct {
	Name   string
	Label  string
	Left   string
	Right  string
	Value  string
	Errors string
}

type formView struct {
	page
	Heading string
	Action  string
	Submit  string
	Cancel  string
	Values  formValues
	Image   string
	AxisIn  []axisInput
	Errors  map[string]string
}

var axisKeys = map[models.Axis][3]i18n.Key{
	models.AxisStyle:  {i18n.Style, i18n.StyleLeft, i18n.StyleRight},
	models.AxisVolume: {i18n.Volume, i18n.VolumeLeft, i18n.VolumeRight},
	models.AxisPatty:  {i18n.Patty, i18n.PattyLeft, i18n.PattyRight},
	models.AxisBuns:   {i18n.Buns, i18n.BunsLeft, i18n.BunsRight},
	models.AxisSauce:  {i18n.Sauce, i18n.SauceLeft, i18n.SauceRight},
}

func valuesOf(rv models.Review) formValues {
	v := formValues{
		ShopName:   rv.ShopName,
		BurgerName: rv.BurgerName,
		Rating:     strconv.Itoa(rv.Rating),
		Price:      strconv.Itoa(rv.Price),
		Comment:    rv.Comment,
		Tags:       rv.Tags,
		ImageURL:   rv.ImageURL,
		Axes:       map[string]string{},
	}
	if rv.VisitDate != nil {
		v.VisitDate = rv.VisitDate.String()
	}
	for _, a := range models.Axes {
		v.Axes[a.Field()] = strconv.Itoa(rv.AxisValue(a))
	}
	return v
}

func valuesFromForm(r *http.Request) formValues {
	v := formValues{
		ShopName:   r.FormValue("shop_name"),
		BurgerName: r.FormValue("burger_name"),
		Rating:     r.FormValue("rating"),
		Price:      r.FormValue("price"),
		VisitDate:  r.FormValue("visit_date"),
		Comment:    r.FormValue("comment"),
		Tags:       r.FormValue("tags"),
		ImageURL:   r.FormValue("image_url"),
		Axes:       map[string]string{},
	}
	for _, a := range models.Axes {
		v.Axes[a.Field()] = r.FormValue(a.Field())
	}
	return v
}

// draft turns submitted text into a Draft. A blank date clears it.
func (v formValues) draft() models.Draft {
	d := models.Draft{
		ShopName:     models.String(v.ShopName),
		BurgerName:   models.String(v.BurgerName),
		Rating:       models.ParseFlexInt(v.Rating),
		RatingStyle:  models.ParseFlexInt(v.Axes[models.AxisStyle.Field()]),
		RatingVolume: models.ParseFlexInt(v.Axes[models.AxisVolume.Field()]),
		RatingPatty:  models.ParseFlexInt(v.Axes[models.AxisPatty.Field()]),
		RatingBuns:   models.ParseFlexInt(v.Axes[models.AxisBuns.Field()]),
		RatingSauce:  models.ParseFlexInt(v.Axes[models.AxisSauce.Field()]),
		Price:        models.ParseFlexInt(v.Price),
		VisitDate:    models.ParseDateField(v.VisitDate),
		Comment:      models.String(v.Comment),
		Tags:         models.String(v.Tags),
	}
	if v.ImageURL != "" {
		d.ImageURL = models.String(v.ImageURL)
	}
	return d
}

func (p *Pages) newForm(pg page, heading, submit i18n.Key, action, cancel string, v formValues, errs map[string]string) formView {
	f := formView{
		page:    pg,
		Heading: pg.lang.T(heading),
		Action:  action,
		Submit:  pg.lang.T(submit),
		Cancel:  cancel,
		Values:  v,
		Image:   p.asset(v.ImageURL),
		Errors:  errs,
	}
	if f.Errors == nil {
		f.Errors = map[string]string{}
	}
	for _, a := range models.Axes {
		k := axisKeys[a]
		f.AxisIn = append(f.AxisIn, axisInput{
			Name:   a.Field(),
			Label:  pg.lang.T(k[0]),
			Left:   pg.lang.T(k[1]),
			Right:  pg.lang.T(k[2]),
			Value:  v.Axes[a.Field()],
			Errors: f.Errors[a.Field()],
		})
	}
	return f
}

func blankReview() models.Review {
	return models.Review{
		Rating:       defaultRating,
		RatingStyle:  models.DefaultAxisRating,
		RatingVolume: models.DefaultAxisRating,
		RatingPatty:  models.DefaultAxisRating,
		RatingBuns:   models.DefaultAxisRating,
		RatingSauce:  models.DefaultAxisRating,
		Price:        defaultPrice,
	}
}

// NewForm renders an empty form with the default ratings and price.
func (p *Pages) NewForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg := p.newPage(r, i18n.NewReview)
		f := p.newForm(pg, i18n.NewReview, i18n.Save, pg.Link("/new"), pg.Link("/"), valuesOf(blankReview()), nil)
		p.show(w, r, http.StatusOK, "form.html", f)
	}
}

// EditForm renders the form filled with the stored review.
func (p *Pages) EditForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg := p.newPage(r, i18n.EditReview)
		id, err := pathID(r)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		rv, err := p.reviews.Get(r.Context(), id)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		f := p.newForm(pg, i18n.EditReview, i18n.Update,
			pg.Link(fmt.Sprintf("/r/%d/edit", id)), pg.Link(fmt.Sprintf("/r/%d", id)), valuesOf(rv), nil)
		p.show(w, r, http.StatusOK, "form.html", f)
	}
}

// submission reads the posted form and uploads its photo, if any, before
// anything is saved. A failed upload is returned as is.
func (p *Pages) submission(w http.ResponseWriter, r *http.Request) (formValues, error) {
	limitBody(w, r, p.images.MaxBytes())
	data, name, ok, err := readUpload(r, "image", p.images.MaxBytes())
	v := valuesFromForm(r)
	if err != nil || !ok {
		return v, err
	}
	asset, err := p.images.Save(r.Context(), data, name)
	if err != nil {
		return v, err
	}
	v.ImageURL = asset.URL
	return v, nil
}

func (p *Pages) rejected(w http.ResponseWriter, r *http.Request, f formView, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		f.Alert = f.lang.T(i18n.SaveFail)
		f = p.withErrors(f, verr.Fields)
		p.show(w, r, http.StatusUnprocessableEntity, "form.html", f)
	default:
		var uerr *media.UploadError
		var berr *badRequest
		if !errors.As(err, &uerr) && !errors.As(err, &berr) {
			p.fail(w, r, err)
			return
		}
		requestLogger(r, p.logger).Warn("photo upload failed", zap.Error(err))
		f.Alert = f.lang.T(i18n.UploadFail)
		status, _ := classify(err)
		p.show(w, r, status, "form.html", f)
	}
}

func (p *Pages) withErrors(f formView, fields map[string]string) formView {
	f.Errors = fields
	for i := range f.AxisIn {
		f.AxisIn[i].Errors = fields[f.AxisIn[i].Name]
	}
	return f
}

// Create handles the new-review form: upload first, then save.
func (p *Pages) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg := p.newPage(r, i18n.NewReview)
		v, err := p.submission(w, r)
		f := p.newForm(pg, i18n.NewReview, i18n.Save, pg.Link("/new"), pg.Link("/"), v, nil)
		if err != nil {
			p.rejected(w, r, f, err)
			return
		}

		rv, err := models.Normalize(v.draft())
		if err == nil {
			rv, err = p.reviews.Create(r.Context(), rv)
		}
		if err != nil {
			p.rejected(w, r, f, err)
			return
		}
		requestLogger(r, p.logger).Info("review created", zap.Int64("id", rv.ID))
		p.redirect(w, r, pg.Link("/")+"&notice=saved")
	}
}

// Update handles the edit form. Without a new photo the stored one is kept.
func (p *Pages) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg := p.newPage(r, i18n.EditReview)
		id, err := pathID(r)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		v, err := p.submission(w, r)
		f := p.newForm(pg, i18n.EditReview, i18n.Update,
			pg.Link(fmt.Sprintf("/r/%d/edit", id)), pg.Link(fmt.Sprintf("/r/%d", id)), v, nil)
		if err != nil {
			p.rejected(w, r, f, err)
			return
		}

		// The form posts every field, so blanks are validated as on create.
		rv, err := models.Normalize(v.draft())
		if err != nil {
			p.rejected(w, r, f, err)
			return
		}
		d := models.DraftOf(rv)
		if v.ImageURL == "" {
			d.ImageURL = nil
		}
		if _, err := p.reviews.Update(r.Context(), id, d); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				p.fail(w, r, err)
				return
			}
			p.rejected(w, r, f, err)
			return
		}
		p.redirect(w, r, pg.Link(fmt.Sprintf("/r/%d", id))+"&notice=updated")
	}
}

// Delete removes a review after the client-side confirmation.
func (p *Pages) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg := p.newPage(r, i18n.AppTitle)
		id, err := pathID(r)
		if err == nil {
			err = p.reviews.Delete(r.Context(), id)
		}
		if err != nil {
			requestLogger(r, p.logger).Warn("delete failed", zap.Error(err))
			p.redirect(w, r, pg.Link("/")+"&alert=delete")
			return
		}
		p.redirect(w, r, pg.Link("/"))
	}
}

// Import appends an uploaded export file and returns to the list.
func (p *Pages) Import() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg := p.newPage(r, i18n.AppTitle)
		n, err := importUpload(w, r, p.reviews)
		if err != nil {
			requestLogger(r, p.logger).Warn("import rejected", zap.Error(err))
			p.redirect(w, r, pg.Link("/")+"&alert=import")
			return
		}
		requestLogger(r, p.logger).Info("reviews imported", zap.Int("count", n))
		p.redirect(w, r, pg.Link("/")+"&notice=imported")
	}
}

// Export downloads the collection, returning to the list with an alert when
// it cannot be produced.
func (p *Pages) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := p.reviews.ExportAll(r.Context(), &buf); err != nil {
			requestLogger(r, p.logger).Error("export failed", zap.Error(err))
			p.redirect(w, r, p.newPage(r, i18n.AppTitle).Link("/")+"&alert=export")
			return
		}
		writeExport(w, buf.Bytes())
	}
}
