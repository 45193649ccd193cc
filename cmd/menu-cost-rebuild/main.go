package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/mmdatafocus/menucost_backend/utils"
)

// Recomputes every menu's totalCost/costRate snapshot from the current
// ingredient prices. Run after bulk price imports or conversion-factor fixes.
func main() {
	businessID := flag.String("business-id", "", "Optional: rebuild only one business (uuid string). If empty, rebuilds all businesses.")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	config.ConnectRedisWithRetry()

	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUsernameInContext(ctx, "MenuCostRebuild")

	var businesses []models.Business
	bizQuery := db.WithContext(ctx).Model(&models.Business{})
	if strings.TrimSpace(*businessID) != "" {
		bizQuery = bizQuery.Where("id = ?", strings.TrimSpace(*businessID))
	}
	if err := bizQuery.Find(&businesses).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to list businesses: %v\n", err)
		os.Exit(1)
	}
	if len(businesses) == 0 {
		fmt.Fprintln(os.Stderr, "no businesses found to rebuild")
		return
	}

	locker := config.GetRedisLock()
	for _, b := range businesses {
		bid := b.ID.String()
		bizCtx := utils.SetBusinessIdInContext(ctx, bid)

		// One rebuild per business at a time; concurrent runs would race
		// on the same snapshot rows.
		var lock *redislock.Lock
		if locker != nil {
			var err error
			lock, err = locker.Obtain(bizCtx, "lock:menu-cost-rebuild:"+bid, 10*time.Minute, nil)
			if err == redislock.ErrNotObtained {
				fmt.Fprintf(os.Stderr, "business %s: rebuild already running, skipping\n", bid)
				continue
			} else if err != nil {
				fmt.Fprintf(os.Stderr, "business %s: failed to obtain lock: %v\n", bid, err)
				continue
			}
		}

		menuIds, err := models.MenuIdsForBusiness(bizCtx, bid)
		if err != nil {
			fmt.Fprintf(os.Stderr, "business %s: failed to list menus: %v\n", bid, err)
			releaseLock(bizCtx, lock)
			continue
		}

		var rebuilt, failed int
		for _, menuId := range menuIds {
			if _, err := models.RecalculateMenuCost(bizCtx, menuId); err != nil {
				fmt.Fprintf(os.Stderr, "business %s: menu %d: %v\n", bid, menuId, err)
				failed++
				continue
			}
			rebuilt++
		}
		fmt.Printf("business %s: rebuilt %d menus (%d failed)\n", bid, rebuilt, failed)
		releaseLock(bizCtx, lock)
	}
}

func releaseLock(ctx context.Context, lock *redislock.Lock) {
	if lock == nil {
		return
	}
	if err := lock.Release(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to release lock: %v\n", err)
	}
}
