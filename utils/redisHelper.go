package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/mmdatafocus/menucost_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

// check if model has expiration date
func typeHasExpiration(typeName string) bool {
	expirableTypes := map[string]bool{
		"Ingredient":  true,
		"Category":    true,
		"Subcategory": true,
		"Menu":        true,
	}
	return expirableTypes[typeName]
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// store list of a business
func StoreRedisList[T any](obj any, businessId string) error {
	typeName := GetTypeName[T]()
	key := "All" + typeName + ":" + businessId

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// retrieve instance (nil when absent)
func RetrieveRedis[T any](id int) (*T, error) {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	var obj T
	exists, err := config.GetRedisObject(key, &obj)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &obj, nil
}

// retrieve list of a business (nil when absent)
func RetrieveRedisList[T any](businessId string) ([]*T, error) {
	key := "All" + GetTypeName[T]() + ":" + businessId
	var objs []*T
	exists, err := config.GetRedisObject(key, &objs)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return objs, nil
}

func RemoveRedisList[T any](businessId string) error {
	key := "All" + GetTypeName[T]() + ":" + businessId
	return config.RemoveRedisKey(key)
}

func RemoveRedisItem[T any](id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}
