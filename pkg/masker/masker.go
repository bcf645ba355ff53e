package masker

import (
	"errors"
	"reflect"
	"time"

	"go.uber.org/zap"
)

var ErrConfigNotPointer = errors.New("config must be a pointer to struct")

// LogConfigs логгирует структуры, в том числе вложенные.
// Если поле помечено тегом masked, то оно будет логгироваться замаскированным.
// Каждая структура логируется отдельной строкой. Вложенные поля не логгируются отдельно.
func LogConfigs(logger *zap.Logger, configs ...interface{}) error {
	for _, config := range configs {
		v := reflect.ValueOf(config)
		t := reflect.TypeOf(config)

		if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
			return ErrConfigNotPointer
		}
		v = v.Elem()
		t = t.Elem()

		masked := maskStructFields(v, t)

		logger.Info("Config", zap.Any(t.Name(), masked))
	}
	return nil
}

// maskStructFields маскирует поля структуры, если они отмечены тегом masked
func maskStructFields(v reflect.Value, t reflect.Type) map[string]interface{} {
	result := make(map[string]interface{})
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)
		if !fieldType.IsExported() {
			continue
		}
		masked := fieldType.Tag.Get("masked")

		switch {
		// Длительности пишем строкой, иначе в логе окажутся наносекунды
		case field.Type() == reflect.TypeOf(time.Duration(0)):
			result[fieldType.Name] = time.Duration(field.Int()).String()

		// Если поле структура, то рекурсивная обработка и добавление вложенных полей в мапу.
		case field.Kind() == reflect.Struct:
			result[fieldType.Name] = maskStructFields(field, field.Type())

		// Если поле строка и помечено тегом masked, то маскируется.
		case field.Kind() == reflect.String:
			if masked == "true" {
				result[fieldType.Name] = maskSensitiveData(field.String())
			} else {
				result[fieldType.Name] = field.String()
			}

		default:
			result[fieldType.Name] = field.Interface()
		}
	}
	return result
}

// maskSensitiveData маскирует строку, оставляя только первый и последний символы.
// Если строка короче 2 символов, то возвращается "****".
func maskSensitiveData(data string) string {
	if len(data) <= 2 {
		return "****"
	}
	return string(data[0]) + "****" + string(data[len(data)-1])
}

// Phone маскирует номер телефона для логов: "+79123456789" -> "+7********89".
func Phone(phone string) string {
	runes := []rune(phone)
	if len(runes) <= 4 {
		return "****"
	}
	masked := make([]rune, len(runes))
	for i, r := range runes {
		if i < 2 || i >= len(runes)-2 {
			masked[i] = r
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}

// PhoneField - zap-поле с замаскированным телефоном. nil пишется как пустая строка.
func PhoneField(phone *string) zap.Field {
	if phone == nil {
		return zap.String("phone", "")
	}
	return zap.String("phone", Phone(*phone))
}
