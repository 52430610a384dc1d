// internal/i18n/i18n.go
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var instance *I18n
var once sync.Once

// English catalog compiled into the binary; locale files on disk
// override these entries.
var builtinEnglish = map[string]string{
	KeySuccess: "Success",
	KeyError:   "Error",

	KeyAuthRequired:     "Authentication required",
	KeyAuthInvalidToken: "Invalid authentication token",
	KeyAuthTokenExpired: "Authentication token expired",
	KeyAuthSynced:       "Account synchronized",

	KeyUserProfileUpdated: "Profile updated",
	KeyUserNotFound:       "User not found",
	KeyUserSuspended:      "Account is suspended",
	KeyUserRoleUpdated:    "User role updated",
	KeyUserStatusUpdated:  "User status updated",

	KeyFarmCreated:  "Farm created",
	KeyFarmUpdated:  "Farm updated",
	KeyFarmNotFound: "Farm not found",

	KeySeasonCreated:   "Season created",
	KeySeasonUpdated:   "Season updated",
	KeySeasonCompleted: "Season completed",
	KeySeasonNotFound:  "Season not found",

	KeyProcessRecorded: "Cultivation process recorded",

	KeyProductCreated:    "Product created",
	KeyProductUpdated:    "Product updated",
	KeyProductDeleted:    "Product deleted",
	KeyProductNotFound:   "Product not found",
	KeyProductOutOfStock: "Insufficient product quantity",

	KeyOrderCreated:           "Order placed",
	KeyOrderNotFound:          "Order not found",
	KeyOrderStatusUpdated:     "Order status updated",
	KeyOrderInvalidTransition: "Order status transition not allowed",

	KeyShipmentCreated:           "Shipment created",
	KeyShipmentNotFound:          "Shipment not found",
	KeyShipmentDriverAssigned:    "Driver assigned",
	KeyShipmentStatusUpdated:     "Shipment status updated",
	KeyShipmentInvalidTransition: "Shipment status transition not allowed",
	KeyShipmentAlreadyExists:     "An active shipment already exists for this order",

	KeyAdminActionSuccess: "Action completed",
	KeyAdminAccessDenied:  "Admin access required",

	KeyValidationRequired: "%s is required",
	KeyValidationInvalid:  "Invalid %s",

	KeyNotificationRead:    "Notification marked as read",
	KeyNotificationAllRead: "All notifications marked as read",

	KeyReportCreated:  "Report submitted",
	KeyReportResolved: "Report resolved",
	KeyReportNotFound: "Report not found",
}

func Initialize() error {
	var err error
	once.Do(func() {
		instance = &I18n{
			translations: map[string]map[string]string{"en": builtinEnglish},
			defaultLang:  "en",
		}
		err = instance.LoadTranslations("./internal/i18n/locales")
	})
	return err
}

// LoadTranslations merges locale files over the built-in catalog.
// Missing files are fine; the embedded English entries remain.
func (i *I18n) LoadTranslations(localesPath string) error {
	localeFiles := []string{"en.json", "vi.json"}

	for _, file := range localeFiles {
		lang := strings.TrimSuffix(file, ".json")
		filePath := filepath.Join(localesPath, file)

		data, err := os.ReadFile(filePath)
		if err != nil {
			continue
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to unmarshal locale file %s: %w", filePath, err)
		}

		i.mu.Lock()
		if i.translations[lang] == nil {
			i.translations[lang] = make(map[string]string)
		}
		for key, text := range translations {
			i.translations[lang][key] = text
		}
		i.mu.Unlock()
	}

	return nil
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	// Try to get translation for requested language
	if translations, exists := i.translations[lang]; exists {
		if text, exists := translations[key]; exists {
			if len(args) > 0 {
				return fmt.Sprintf(text, args...)
			}
			return text
		}
	}

	// Fallback to default language
	if lang != i.defaultLang {
		if translations, exists := i.translations[i.defaultLang]; exists {
			if text, exists := translations[key]; exists {
				if len(args) > 0 {
					return fmt.Sprintf(text, args...)
				}
				return text
			}
		}
	}

	// Return key if no translation found
	return key
}

// Global functions
func T(lang, key string, args ...interface{}) string {
	if instance != nil {
		return instance.T(lang, key, args...)
	}
	return key
}

func GetSupportedLanguages() []string {
	if instance == nil {
		return []string{"en"}
	}

	instance.mu.RLock()
	defer instance.mu.RUnlock()

	langs := make([]string, 0, len(instance.translations))
	for lang := range instance.translations {
		langs = append(langs, lang)
	}
	return langs
}
