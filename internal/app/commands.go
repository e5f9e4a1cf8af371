package app

import (
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"staybook/internal/adapters/imaging"
	"staybook/internal/domain"
)

// CommandService owns all write paths. Every mutation ends with a
// coarse invalidation of the affected namespace: the whole key prefix
// is evicted rather than the specific keys touched.
type CommandService struct {
	store domain.Store
	cache domain.Cache
	queue domain.TaskQueue

	mediaDir      string
	resizeWidths  []int
	resizeTimeout time.Duration
}

func NewCommandService(s domain.Store, c domain.Cache, q domain.TaskQueue, mediaDir string, widths []int, resizeTimeout time.Duration) *CommandService {
	return &CommandService{
		store:         s,
		cache:         c,
		queue:         q,
		mediaDir:      mediaDir,
		resizeWidths:  widths,
		resizeTimeout: resizeTimeout,
	}
}

func (s *CommandService) invalidate(ctx context.Context, ns string) {
	if err := s.cache.DelPrefix(ctx, ns+":"); err != nil {
		log.Warn().Err(err).Str("namespace", ns).Msg("cache invalidation failed")
	}
}

// ---- countries ----

func (s *CommandService) CreateCountry(ctx context.Context, name, isoCode string) (domain.CountryView, error) {
	c, err := s.store.CreateCountry(ctx, name, isoCode)
	if err != nil {
		return domain.CountryView{}, err
	}
	s.invalidate(ctx, nsCountries)
	return MapCountry(c), nil
}

func (s *CommandService) UpdateCountry(ctx context.Context, id int64, p domain.CountryPatch) (domain.CountryView, error) {
	c, err := s.store.UpdateCountry(ctx, id, p)
	if err != nil {
		return domain.CountryView{}, err
	}
	s.invalidate(ctx, nsCountries)
	return MapCountry(c), nil
}

func (s *CommandService) DeleteCountry(ctx context.Context, id int64) error {
	if err := s.store.DeleteCountry(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, nsCountries)
	return nil
}

// ---- cities ----

func (s *CommandService) CreateCity(ctx context.Context, name string, countryID int64) (domain.CityView, error) {
	r, err := s.store.CreateCity(ctx, name, countryID)
	if err != nil {
		return domain.CityView{}, err
	}
	s.invalidate(ctx, nsCities)
	return MapCity(r), nil
}

func (s *CommandService) UpdateCity(ctx context.Context, id int64, p domain.CityPatch) (domain.CityView, error) {
	r, err := s.store.UpdateCity(ctx, id, p)
	if err != nil {
		return domain.CityView{}, err
	}
	s.invalidate(ctx, nsCities)
	return MapCity(r), nil
}

func (s *CommandService) DeleteCity(ctx context.Context, id int64) error {
	if err := s.store.DeleteCity(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, nsCities)
	return nil
}

// ---- hotels ----

func (s *CommandService) CreateHotel(ctx context.Context, h domain.Hotel) (domain.HotelView, error) {
	r, err := s.store.CreateHotel(ctx, h)
	if err != nil {
		return domain.HotelView{}, err
	}
	s.invalidate(ctx, nsHotels)
	return MapHotel(r), nil
}

func (s *CommandService) UpdateHotel(ctx context.Context, id int64, p domain.HotelPatch) (domain.HotelView, error) {
	r, err := s.store.UpdateHotel(ctx, id, p)
	if err != nil {
		return domain.HotelView{}, err
	}
	s.invalidate(ctx, nsHotels)
	return MapHotel(r), nil
}

func (s *CommandService) DeleteHotel(ctx context.Context, id int64) error {
	if err := s.store.DeleteHotel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, nsHotels)
	return nil
}

// ---- rooms ----

func (s *CommandService) CreateRoom(ctx context.Context, r domain.Room, facilityIDs []int64) (domain.RoomView, error) {
	row, err := s.store.CreateRoom(ctx, r, facilityIDs)
	if err != nil {
		return domain.RoomView{}, err
	}
	s.invalidate(ctx, nsRooms)
	return MapRoom(row), nil
}

func (s *CommandService) UpdateRoom(ctx context.Context, id int64, p domain.RoomPatch) (domain.RoomView, error) {
	row, err := s.store.UpdateRoom(ctx, id, p)
	if err != nil {
		return domain.RoomView{}, err
	}
	s.invalidate(ctx, nsRooms)
	return MapRoom(row), nil
}

func (s *CommandService) DeleteRoom(ctx context.Context, id int64) error {
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, nsRooms)
	return nil
}

// ---- facilities ----

func (s *CommandService) CreateFacility(ctx context.Context, title string) (domain.FacilityView, error) {
	f, err := s.store.CreateFacility(ctx, title)
	if err != nil {
		return domain.FacilityView{}, err
	}
	s.invalidate(ctx, nsFacilities)
	return MapFacility(f), nil
}

func (s *CommandService) UpdateFacility(ctx context.Context, id int64, title string) (domain.FacilityView, error) {
	f, err := s.store.UpdateFacility(ctx, id, title)
	if err != nil {
		return domain.FacilityView{}, err
	}
	s.invalidate(ctx, nsFacilities)
	return MapFacility(f), nil
}

func (s *CommandService) DeleteFacility(ctx context.Context, id int64) error {
	if err := s.store.DeleteFacility(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, nsFacilities)
	return nil
}

// ---- users ----

// RegisterUser stores a new account. The password must already be
// hashed by the caller.
func (s *CommandService) RegisterUser(ctx context.Context, u domain.User) (domain.UserView, error) {
	created, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return domain.UserView{}, err
	}
	s.invalidate(ctx, nsUsers)
	return MapUser(created), nil
}

func (s *CommandService) UpdateUser(ctx context.Context, id int64, p domain.UserPatch) (domain.UserView, error) {
	u, err := s.store.UpdateUser(ctx, id, p)
	if err != nil {
		return domain.UserView{}, err
	}
	s.invalidate(ctx, nsUsers)
	return MapUser(u), nil
}

func (s *CommandService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, nsUsers)
	return nil
}

// ---- bookings ----

func (s *CommandService) CreateBooking(ctx context.Context, roomID, userID int64, dateFrom, dateTo time.Time) (domain.BookingView, error) {
	if !dateFrom.Before(dateTo) {
		return domain.BookingView{}, fmt.Errorf("%w: date_from must precede date_to", domain.ErrInvalidInput)
	}
	b, err := s.store.CreateBooking(ctx, roomID, userID, dateFrom, dateTo)
	if err != nil {
		return domain.BookingView{}, err
	}
	s.invalidate(ctx, nsBookings)
	return MapBooking(b), nil
}

// DeleteBooking removes a booking owned by userID; deleting someone
// else's booking fails with ErrForbidden.
func (s *CommandService) DeleteBooking(ctx context.Context, id, userID int64) error {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return domain.ErrForbidden
	}
	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, nsBookings)
	return nil
}

// ---- images ----

// UploadImage stores the original under the media dir, hands resizing
// to the out-of-process worker and blocks on completion up to the
// configured timeout. A timed-out or failed task is terminal: temp
// files are removed and the upload fails.
func (s *CommandService) UploadImage(ctx context.Context, hotelID int64, ext string, src io.Reader) (domain.ImageView, error) {
	if _, err := s.store.GetHotel(ctx, hotelID); err != nil {
		return domain.ImageView{}, err
	}

	name, err := randomHex(16)
	if err != nil {
		return domain.ImageView{}, err
	}
	path := filepath.Join(s.mediaDir, name+ext)
	if err := writeFile(path, src); err != nil {
		return domain.ImageView{}, err
	}

	task := domain.ResizeTask{ID: name, Path: path, Widths: s.resizeWidths}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		s.removeImageFiles(path)
		return domain.ImageView{}, err
	}

	res, err := s.queue.Wait(ctx, task.ID, s.resizeTimeout)
	if err != nil || !res.OK {
		s.removeImageFiles(path)
		if err == nil {
			err = fmt.Errorf("resize task failed: %s", res.Err)
		}
		log.Error().Err(err).Str("task", task.ID).Msg("image resize did not complete")
		return domain.ImageView{}, err
	}

	img, err := s.store.AttachImage(ctx, hotelID, path)
	if err != nil {
		s.removeImageFiles(path)
		return domain.ImageView{}, err
	}
	s.invalidate(ctx, nsImages)
	return MapImage(img), nil
}

func (s *CommandService) DeleteImage(ctx context.Context, imageID int64) error {
	path, err := s.store.DeleteImage(ctx, imageID)
	if err != nil {
		return err
	}
	s.removeImageFiles(path)
	s.invalidate(ctx, nsImages)
	return nil
}

func (s *CommandService) removeImageFiles(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("remove image failed")
	}
	for _, w := range s.resizeWidths {
		vp := imaging.VariantPath(path, w)
		if err := os.Remove(vp); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", vp).Msg("remove image variant failed")
		}
	}
}

func writeFile(path string, src io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := crand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
